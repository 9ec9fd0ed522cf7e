package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cinehub/pkg/config"
	"cinehub/pkg/kafka"
	"cinehub/pkg/logger"
	"cinehub/pkg/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleEvent() model.BookingEvent {
	booking := &model.Booking{
		ID:     "b-1",
		UserID: "u-1",
		ShowID: "show_tt0133093",
		Seats:  []string{"A1", "A2"},
		Amount: 500,
		Status: model.BookingStatusBooked,
	}
	return model.NewBookingEvent(model.EventBookingReserved, booking, time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC))
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, msg kafka.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockProducer) Close() error {
	return m.Called().Error(0)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &mockProducer{}
	producer.On("Publish", mock.Anything, mock.MatchedBy(func(msg kafka.Message) bool {
		return msg.Key == "show_tt0133093" &&
			msg.GetEventType() == model.EventBookingReserved &&
			msg.GetCorrelationID() == "b-1" &&
			msg.Headers[kafka.HeaderSource] == SourceBookings
	})).Return(nil)

	p := NewKafkaPublisher(producer, logger.Discard())
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	producer.AssertExpectations(t)

	msg := producer.Calls[0].Arguments.Get(1).(kafka.Message)
	var decoded model.BookingEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, []string{"A1", "A2"}, decoded.Seats)
	assert.EqualValues(t, 500, decoded.Amount)
}

func TestKafkaPublisher_PropagatesError(t *testing.T) {
	producer := &mockProducer{}
	boom := errors.New("broker down")
	producer.On("Publish", mock.Anything, mock.Anything).Return(boom)

	p := NewKafkaPublisher(producer, logger.Discard())
	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), boom)
}

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		err := c.publishErr
		c.publishErr = nil
		return err
	}
	c.keys = append(c.keys, exchange+"/"+key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newTestRabbit(channels ...*fakeChannel) (*RabbitMQPublisher, *int) {
	dials := 0
	p := &RabbitMQPublisher{
		url: "amqp://test",
		log: logger.Discard(),
		dial: func(string) (*amqp.Connection, amqpChannel, error) {
			ch := channels[dials]
			dials++
			return nil, ch, nil
		},
	}
	return p, &dials
}

func TestRabbitMQPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, dials := newTestRabbit(ch)
	require.NoError(t, p.connect())

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	assert.Equal(t, 1, *dials)
	assert.Equal(t, []string{"booking.events:topic"}, ch.declared)
	assert.Equal(t, []string{"booking.events/booking.reserved"}, ch.keys)
	require.Len(t, ch.published, 1)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, "b-1", ch.published[0].CorrelationId)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
}

func TestRabbitMQPublisher_ReconnectsAfterFailure(t *testing.T) {
	broken := &fakeChannel{publishErr: amqp.ErrClosed}
	fresh := &fakeChannel{}
	p, dials := newTestRabbit(broken, fresh)
	require.NoError(t, p.connect())

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	assert.Equal(t, 2, *dials)
	assert.True(t, broken.closed)
	assert.Len(t, fresh.published, 1)
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(logger.Discard())
	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_DefaultsToNoop(t *testing.T) {
	cfg := &config.Config{Log: logger.Discard(), EventsBroker: config.EventsBrokerNone}

	p, err := NewPublisher(cfg)
	require.NoError(t, err)
	_, ok := p.(*noopPublisher)
	assert.True(t, ok)
}
