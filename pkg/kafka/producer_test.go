package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cinehub/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestProducer(main, dlq *fakeWriter) *Producer {
	p := &Producer{
		writer:   main,
		topic:    "booking-events",
		dlqTopic: "dlq-bookings",
		log:      logger.Discard(),
	}
	if dlq != nil {
		p.dlqWriter = dlq
	}
	return p
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().WithKey("show_tt0133093").WithValue(map[string]string{"event": "booking.reserved"}).Build()
	require.NoError(t, err)
	return msg
}

func TestProducer_Publish(t *testing.T) {
	main := &fakeWriter{}
	p := newTestProducer(main, nil)

	var seenTopic string
	p.Use(func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error {
		seenTopic = msg.Topic
		return next(ctx, msg)
	})

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	require.Len(t, main.messages, 1)
	assert.Equal(t, "show_tt0133093", string(main.messages[0].Key))
	assert.Equal(t, "booking-events", seenTopic)
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newTestProducer(&fakeWriter{}, nil)

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)
}

func TestProducer_DivertsToDLQ(t *testing.T) {
	boom := errors.New("leader not available")
	dlq := &fakeWriter{}
	p := newTestProducer(&fakeWriter{err: boom}, dlq)

	err := p.Publish(context.Background(), buildMessage(t))
	assert.ErrorIs(t, err, boom)

	require.Len(t, dlq.messages, 1)
	headers := fromKafka(dlq.messages[0]).Headers
	assert.Equal(t, "booking-events", headers[HeaderOriginalTopic])
	assert.Equal(t, boom.Error(), headers[HeaderDLQError])
}

func TestProducer_Close(t *testing.T) {
	main, dlq := &fakeWriter{}, &fakeWriter{}
	p := newTestProducer(main, dlq)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, main.closed)
	assert.True(t, dlq.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), ErrProducerClosed)
}
