package kafka_middleware

import (
	"context"
	"time"

	"cinehub/pkg/kafka"
	"cinehub/pkg/metrics"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.TrackKafkaMessage(metrics.DirectionProduce, msg.Topic, err, time.Since(start))
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		metrics.TrackKafkaMessage(metrics.DirectionConsume, msg.Topic, err, time.Since(start))
		return err
	}
}
