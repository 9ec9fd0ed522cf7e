package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"cinehub/pkg/kafka"
	"cinehub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingConsumerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: logger.JSON, Output: &buf})

	msg, err := kafka.NewMessage().WithKey("show_tt0133093").WithValue(map[string]string{"a": "b"}).WithEventType("booking.reserved").Build()
	require.NoError(t, err)
	msg.Topic = "booking-events"

	mw := LoggingConsumerMiddleware(log)
	boom := errors.New("boom")
	got := mw(context.Background(), msg, func(ctx context.Context, m kafka.Message) error { return boom })

	assert.ErrorIs(t, got, boom)
	assert.Contains(t, buf.String(), "Failed to process message")
	assert.Contains(t, buf.String(), `"event_type":"booking.reserved"`)
}

func TestLoggingProducerMiddlewarePassesThrough(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: logger.JSON, Output: &buf})

	msg, err := kafka.NewMessage().WithKey("k").WithValue(1).Build()
	require.NoError(t, err)

	called := false
	err = LoggingProducerMiddleware(log)(context.Background(), msg, func(ctx context.Context, m kafka.Message) error {
		called = true
		assert.Equal(t, "k", m.Key)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Contains(t, buf.String(), "Published message")
}

func TestMetricsMiddlewareCallsNext(t *testing.T) {
	msg, err := kafka.NewMessage().WithKey("k").WithValue(1).Build()
	require.NoError(t, err)

	calls := 0
	next := func(ctx context.Context, m kafka.Message) error {
		calls++
		return nil
	}

	require.NoError(t, MetricsProducerMiddleware()(context.Background(), msg, next))
	require.NoError(t, MetricsConsumerMiddleware()(context.Background(), msg, next))
	assert.Equal(t, 2, calls)
}
