package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cinehub"

const (
	OutcomeSuccess     = "success"
	OutcomeConflict    = "conflict"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeForbidden   = "forbidden"
	OutcomeNoop        = "noop"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

var (
	reservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_total",
			Help:      "Seat reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	reservedSeats = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reserved_seats_total",
			Help:      "Seats committed by successful reservations",
		},
	)

	cancellations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Booking cancellations by outcome",
		},
		[]string{"outcome"},
	)

	checkoutSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_steps_total",
			Help:      "Checkout flow steps executed by flow, step and result",
		},
		[]string{"flow", "step", "result"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Booking notifications handled by event and result",
		},
		[]string{"event", "result"},
	)

	transactionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_retries_total",
			Help:      "Store transactions retried after a version conflict or transient error",
		},
		[]string{"operation"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	movieCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movie_cache_requests_total",
			Help:      "Movie cache lookups by result",
		},
		[]string{"result"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Booking events handed to the broker",
		},
		[]string{"event", "result"},
	)

	kafkaMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Kafka messages produced or consumed, by topic and result",
		},
		[]string{"direction", "topic", "result"},
	)

	kafkaDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Kafka message handling latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"direction", "topic"},
	)

	_ = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_goroutines",
			Help:      "Current number of goroutines",
		},
		func() float64 { return float64(runtime.NumGoroutine()) },
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}

func TrackReservation(outcome string, seats int) {
	reservations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		reservedSeats.Add(float64(seats))
	}
}

func TrackCancellation(outcome string) {
	cancellations.WithLabelValues(outcome).Inc()
}

func TrackRetry(operation string) {
	transactionRetries.WithLabelValues(operation).Inc()
}

func TrackCheckoutStep(flow, step string, err error) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeError
	}
	checkoutSteps.WithLabelValues(flow, step, result).Inc()
}

func TrackNotification(event string, err error) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeError
	}
	notifications.WithLabelValues(event, result).Inc()
}

func TrackHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackMovieCache(result string) {
	movieCache.WithLabelValues(result).Inc()
}

func TrackEventPublished(event string, err error) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeError
	}
	eventsPublished.WithLabelValues(event, result).Inc()
}

const (
	DirectionProduce = "produce"
	DirectionConsume = "consume"
)

func TrackKafkaMessage(direction, topic string, err error, duration time.Duration) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeError
	}
	kafkaMessages.WithLabelValues(direction, topic, result).Inc()
	kafkaDuration.WithLabelValues(direction, topic).Observe(duration.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
