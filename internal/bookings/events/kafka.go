package events

import (
	"context"

	"cinehub/pkg/kafka"
	"cinehub/pkg/logger"
	"cinehub/pkg/model"
)

type messageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// KafkaPublisher keys events by show id so one show's events stay ordered.
type KafkaPublisher struct {
	producer messageProducer
	log      *logger.Logger
}

func NewKafkaPublisher(producer messageProducer, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.ShowID).
		WithValue(event).
		WithEventType(event.Event).
		WithSource(SourceBookings).
		WithSchemaVersion(SchemaVersion).
		WithCorrelationID(event.BookingID).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
