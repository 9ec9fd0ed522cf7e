package events

import (
	"context"
	"fmt"

	"cinehub/pkg/config"
	"cinehub/pkg/kafka"
	kafka_config "cinehub/pkg/kafka/config"
	kafka_middleware "cinehub/pkg/kafka/middleware"
	"cinehub/pkg/logger"
	"cinehub/pkg/model"
)

const (
	SourceBookings = "cinehub-bookings"
	SchemaVersion  = "1"
)

// Publisher delivers booking lifecycle events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
	Close() error
}

// NewPublisher builds the publisher selected by cfg.EventsBroker.
func NewPublisher(cfg *config.Config) (Publisher, error) {
	log := cfg.Log.With("component", "events", "broker", cfg.EventsBroker)

	switch cfg.EventsBroker {
	case config.EventsBrokerKafka:
		kafkaCfg, err := kafka_config.Load()
		if err != nil {
			return nil, err
		}
		kafkaCfg.LogConfiguration(log)

		producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQ, log)
		if err != nil {
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		if kafkaCfg.EnableMiddleware {
			producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
			producer.Use(kafka_middleware.MetricsProducerMiddleware())
		}
		return NewKafkaPublisher(producer, log), nil

	case config.EventsBrokerRabbitMQ:
		publisher, err := DialRabbitMQ(cfg.RabbitMQURL, log)
		if err != nil {
			return nil, err
		}
		return publisher, nil

	default:
		return NewNoopPublisher(log), nil
	}
}

type noopPublisher struct {
	log *logger.Logger
}

func NewNoopPublisher(log *logger.Logger) Publisher {
	return &noopPublisher{log: log}
}

func (p *noopPublisher) Publish(_ context.Context, event model.BookingEvent) error {
	p.log.Debug("Booking event dropped, no broker configured",
		"event", event.Event,
		"booking_id", event.BookingID,
	)
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}
