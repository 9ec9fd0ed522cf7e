package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "explicit transient", err: NewTransientError("db down", errors.New("x")), want: ErrorTypeTransient},
		{name: "explicit permanent", err: NewPermanentError("bad payload", nil), want: ErrorTypePermanent},
		{name: "wrapped explicit", err: fmt.Errorf("handler: %w", NewTransientError("x", nil)), want: ErrorTypeTransient},
		{name: "deadline", err: fmt.Errorf("write: %w", context.DeadlineExceeded), want: ErrorTypeTransient},
		{name: "broker temporary", err: kafka.LeaderNotAvailable, want: ErrorTypeTransient},
		{name: "connection refused text", err: errors.New("dial tcp: Connection Refused"), want: ErrorTypeTransient},
		{name: "unknown", err: errors.New("something odd"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("x", nil)

	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(NewPermanentError("x", nil), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}
