package repository

import (
	"context"
	"time"

	mongotx "cinehub/pkg/db/mongo"
	"cinehub/pkg/model"
)

const (
	ShowsCollectionName    = "Shows"
	BookingsCollectionName = "Bookings"
)

// ShowRepository is the show half of the reservation store.
type ShowRepository interface {
	// GetOrCreate returns the stored show, inserting show only when no record
	// with the same id exists. An existing record is never modified.
	GetOrCreate(ctx context.Context, show *model.Show) (*model.Show, error)
	FindByID(ctx context.Context, id string) (*model.Show, error)
	// UpdateSeats replaces booked seats only if the stored version still equals
	// expectedVersion, and bumps the version. Otherwise ErrVersionConflict.
	UpdateSeats(ctx context.Context, id string, expectedVersion int64, seats []string) error
}

type BookingRepository interface {
	// Create assigns CreatedAt and inserts the booking.
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	// MarkCancelled flips a booked booking to cancelled. ErrAlreadyCancelled if
	// it was cancelled before.
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// Inside a transaction the session context is returned unchanged, the
// transaction's own deadline applies.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if mongotx.InTransaction(ctx) {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func storeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
