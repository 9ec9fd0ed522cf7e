package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultBookingEventsTopic, cfg.BookingEventsTopic)
	assert.Equal(t, DefaultBookingEventsDLQ, cfg.BookingEventsDLQ)
	assert.EqualValues(t, DefaultConsumerStartOffset, cfg.ConsumerStartOffset)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, kafka-2:9092 ")
	t.Setenv(EnvKafkaBookingEventsTopic, "events")
	t.Setenv(EnvKafkaProducerCompression, "zstd")
	t.Setenv(EnvKafkaConsumerRetryBackoff, "1s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, "events", cfg.BookingEventsTopic)
	assert.Equal(t, "zstd", cfg.ProducerCompression)
	assert.Equal(t, time.Second, cfg.ConsumerRetryBackoff)
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092,")
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaProducerRequireAcks, "2")
	t.Setenv(EnvKafkaBookingEventsDLQ, DefaultBookingEventsTopic)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. Broker 1 cannot be empty")
	assert.Contains(t, err.Error(), "BookingEventsDLQ must differ")
	assert.Contains(t, err.Error(), "ProducerCompression")
	assert.Contains(t, err.Error(), "ProducerRequireAcks")
}
