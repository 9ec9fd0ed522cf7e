package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cinehub/pkg/logger"
	"cinehub/pkg/model"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const ExchangeBookingEvents = "booking.events"

type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQPublisher publishes to a durable topic exchange, routing by event
// name. A broken channel is reopened on the next publish.
type RabbitMQPublisher struct {
	url  string
	dial func(url string) (*amqp.Connection, amqpChannel, error)
	log  *logger.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   amqpChannel
}

func DialRabbitMQ(url string, log *logger.Logger) (*RabbitMQPublisher, error) {
	p := &RabbitMQPublisher{url: url, dial: dialAMQP, log: log}
	if err := p.connect(); err != nil {
		return nil, err
	}
	log.Info("Connected to RabbitMQ", "exchange", ExchangeBookingEvents)
	return p, nil
}

func dialAMQP(url string) (*amqp.Connection, amqpChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	return conn, ch, nil
}

// connect must be called with mu held or before the publisher is shared.
func (p *RabbitMQPublisher) connect() error {
	conn, ch, err := p.dial(p.url)
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(ExchangeBookingEvents, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if conn != nil {
			_ = conn.Close()
		}
		return fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     uuid.NewString(),
		CorrelationId: event.BookingID,
		Type:          event.Event,
		AppId:         SourceBookings,
		Timestamp:     time.Now().UTC(),
		Body:          body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		if err := p.connect(); err != nil {
			return err
		}
	}

	err = p.ch.PublishWithContext(ctx, ExchangeBookingEvents, event.Event, false, false, pub)
	if err == nil {
		return nil
	}

	p.log.Warn("RabbitMQ publish failed, reconnecting", "event", event.Event, "error", err)
	p.closeLocked()
	if err := p.connect(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, ExchangeBookingEvents, event.Event, false, false, pub)
}

func (p *RabbitMQPublisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}
