package notifier

import (
	"context"
	"fmt"
	"strings"

	"cinehub/pkg/kafka"
	"cinehub/pkg/logger"
	"cinehub/pkg/metrics"
	"cinehub/pkg/model"
)

// Notifier turns booking lifecycle events into customer notifications.
// Delivery is a structured log line per ticket confirmation or cancellation.
type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle is a kafka.MessageHandler. Undecodable or unknown events are
// permanent failures so the consumer routes them to the DLQ without retrying.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		metrics.TrackNotification("unknown", err)
		return kafka.NewPermanentError("failed to decode booking event", err)
	}
	if event.Event == "" {
		event.Event = msg.GetEventType()
	}

	err := n.Notify(ctx, event)
	metrics.TrackNotification(event.Event, err)
	return err
}

func (n *Notifier) Notify(ctx context.Context, event model.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return kafka.NewTransientError("notification interrupted", err)
	}
	if event.BookingID == "" || event.UserID == "" {
		return kafka.NewPermanentError(fmt.Sprintf("event %q is missing booking or user", event.Event), nil)
	}

	switch event.Event {
	case model.EventBookingReserved:
		n.log.Info("Ticket confirmation sent",
			"booking_id", event.BookingID,
			"user_id", event.UserID,
			"show_id", event.ShowID,
			"seats", strings.Join(event.Seats, ","),
			"amount", event.Amount,
		)
	case model.EventBookingCancelled:
		n.log.Info("Cancellation notice sent",
			"booking_id", event.BookingID,
			"user_id", event.UserID,
			"show_id", event.ShowID,
			"seats", strings.Join(event.Seats, ","),
		)
	default:
		return kafka.NewPermanentError(fmt.Sprintf("unsupported event type %q", event.Event), nil)
	}
	return nil
}
