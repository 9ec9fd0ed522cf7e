package notifier

import (
	"bytes"
	"context"
	"testing"
	"time"

	"cinehub/pkg/kafka"
	"cinehub/pkg/logger"
	"cinehub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferedNotifier() (*Notifier, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "debug", Format: logger.JSON, Output: &buf, Service: "notifier"})
	return New(log), &buf
}

func eventMessage(t *testing.T, event model.BookingEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(event.ShowID).
		WithValue(event).
		WithEventType(event.Event).
		Build()
	require.NoError(t, err)
	return msg
}

func reserved() model.BookingEvent {
	return model.NewBookingEvent(model.EventBookingReserved, &model.Booking{
		ID:     "b-1",
		UserID: "user-1",
		ShowID: "show_tt0133093",
		Seats:  []string{"A1", "A2"},
		Amount: 500,
		Status: model.BookingStatusBooked,
	}, time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC))
}

func TestHandle_Reserved(t *testing.T) {
	n, buf := bufferedNotifier()

	require.NoError(t, n.Handle(context.Background(), eventMessage(t, reserved())))
	assert.Contains(t, buf.String(), "Ticket confirmation sent")
	assert.Contains(t, buf.String(), `"seats":"A1,A2"`)
}

func TestHandle_Cancelled(t *testing.T) {
	n, buf := bufferedNotifier()
	event := reserved()
	event.Event = model.EventBookingCancelled

	require.NoError(t, n.Handle(context.Background(), eventMessage(t, event)))
	assert.Contains(t, buf.String(), "Cancellation notice sent")
}

func TestHandle_PermanentFailures(t *testing.T) {
	n, _ := bufferedNotifier()

	unknown := reserved()
	unknown.Event = "booking.refunded"
	missingUser := reserved()
	missingUser.UserID = ""

	tests := []struct {
		name string
		msg  kafka.Message
	}{
		{name: "bad payload", msg: kafka.Message{Value: []byte("{nope"), Headers: map[string]string{}}},
		{name: "unknown event", msg: eventMessage(t, unknown)},
		{name: "missing user", msg: eventMessage(t, missingUser)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := n.Handle(context.Background(), tt.msg)
			require.Error(t, err)
			assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
			assert.False(t, kafka.ShouldRetry(err, 0, 3))
		})
	}
}

func TestNotify_CancelledContextIsTransient(t *testing.T) {
	n, _ := bufferedNotifier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Notify(ctx, reserved())
	assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
}
