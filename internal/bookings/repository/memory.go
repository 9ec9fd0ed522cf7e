package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	bookingserrors "cinehub/internal/bookings/errors"
	mongotx "cinehub/pkg/db/mongo"
	"cinehub/pkg/model"
)

type memoryTxKey struct{}

// memoryTx stages writes until the surrounding transaction commits.
type memoryTx struct {
	shows    map[string]*model.Show
	bookings map[string]*model.Booking
}

// MemoryStore is a process-local reservation store. Transactions are
// serialized, so every transaction observes the effects of all earlier
// commits and none of a concurrent one.
type MemoryStore struct {
	sem         chan struct{}
	shows       map[string]*model.Show
	bookings    map[string]*model.Booking
	lastCreated time.Time
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sem:      make(chan struct{}, 1),
		shows:    make(map[string]*model.Show),
		bookings: make(map[string]*model.Booking),
		now:      time.Now,
	}
}

func (s *MemoryStore) Shows() ShowRepository {
	return &memoryShowRepository{store: s}
}

func (s *MemoryStore) Bookings() BookingRepository {
	return &memoryBookingRepository{store: s}
}

func (s *MemoryStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if _, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok {
		return fn(ctx)
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("transaction failed: %w", ctx.Err())
	}
	defer func() { <-s.sem }()

	tx := &memoryTx{
		shows:    make(map[string]*model.Show),
		bookings: make(map[string]*model.Booking),
	}
	if err := fn(context.WithValue(ctx, memoryTxKey{}, tx)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	for id, show := range tx.shows {
		s.shows[id] = show
	}
	for id, booking := range tx.bookings {
		s.bookings[id] = booking
	}
	return nil
}

// run executes fn inside the caller's transaction, or inside a
// single-operation transaction when there is none.
func (s *MemoryStore) run(ctx context.Context, fn func(tx *memoryTx) error) error {
	if tx, ok := ctx.Value(memoryTxKey{}).(*memoryTx); ok {
		return fn(tx)
	}
	return s.ExecuteTransaction(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(memoryTxKey{}).(*memoryTx))
	})
}

func (s *MemoryStore) show(tx *memoryTx, id string) (*model.Show, bool) {
	if show, ok := tx.shows[id]; ok {
		return show, true
	}
	show, ok := s.shows[id]
	return show, ok
}

func (s *MemoryStore) booking(tx *memoryTx, id string) (*model.Booking, bool) {
	if booking, ok := tx.bookings[id]; ok {
		return booking, true
	}
	booking, ok := s.bookings[id]
	return booking, ok
}

// nextCreatedAt keeps creation timestamps strictly increasing.
func (s *MemoryStore) nextCreatedAt() time.Time {
	now := s.now().UTC()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = now
	return now
}

type memoryShowRepository struct {
	store *MemoryStore
}

func (r *memoryShowRepository) GetOrCreate(ctx context.Context, show *model.Show) (*model.Show, error) {
	var out *model.Show
	err := r.store.run(ctx, func(tx *memoryTx) error {
		if existing, ok := r.store.show(tx, show.ID); ok {
			out = existing.Clone()
			return nil
		}
		created := show.Clone()
		created.BookedSeats = []string{}
		created.Version = 0
		created.CreatedAt = r.store.now().UTC()
		tx.shows[created.ID] = created
		out = created.Clone()
		return nil
	})
	return out, err
}

func (r *memoryShowRepository) FindByID(ctx context.Context, id string) (*model.Show, error) {
	var out *model.Show
	err := r.store.run(ctx, func(tx *memoryTx) error {
		show, ok := r.store.show(tx, id)
		if !ok {
			return bookingserrors.ErrShowNotFound
		}
		out = show.Clone()
		return nil
	})
	return out, err
}

func (r *memoryShowRepository) UpdateSeats(ctx context.Context, id string, expectedVersion int64, seats []string) error {
	return r.store.run(ctx, func(tx *memoryTx) error {
		show, ok := r.store.show(tx, id)
		if !ok || show.Version != expectedVersion {
			return bookingserrors.ErrVersionConflict
		}
		updated := show.Clone()
		updated.BookedSeats = append([]string{}, seats...)
		updated.Version++
		tx.shows[id] = updated
		return nil
	})
}

type memoryBookingRepository struct {
	store *MemoryStore
}

func (r *memoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.store.run(ctx, func(tx *memoryTx) error {
		if _, exists := r.store.booking(tx, booking.ID); exists {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateBooking, booking.ID)
		}
		booking.CreatedAt = r.store.nextCreatedAt()
		tx.bookings[booking.ID] = booking.Clone()
		return nil
	})
}

func (r *memoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	var out *model.Booking
	err := r.store.run(ctx, func(tx *memoryTx) error {
		booking, ok := r.store.booking(tx, id)
		if !ok {
			return bookingserrors.ErrBookingNotFound
		}
		out = booking.Clone()
		return nil
	})
	return out, err
}

func (r *memoryBookingRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	return r.store.run(ctx, func(tx *memoryTx) error {
		booking, ok := r.store.booking(tx, id)
		if !ok {
			return bookingserrors.ErrBookingNotFound
		}
		if booking.IsCancelled() {
			return bookingserrors.ErrAlreadyCancelled
		}
		updated := booking.Clone()
		cancelledAt := at.UTC()
		updated.Status = model.BookingStatusCancelled
		updated.CancelledAt = &cancelledAt
		tx.bookings[id] = updated
		return nil
	})
}

func (r *memoryBookingRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	out := []*model.Booking{}
	err := r.store.run(ctx, func(tx *memoryTx) error {
		var matched []*model.Booking
		for id := range r.store.bookings {
			if _, staged := tx.bookings[id]; staged {
				continue
			}
			if b := r.store.bookings[id]; b.UserID == userID {
				matched = append(matched, b)
			}
		}
		for _, b := range tx.bookings {
			if b.UserID == userID {
				matched = append(matched, b)
			}
		}

		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return matched[i].ID < matched[j].ID
		})

		if offset >= int64(len(matched)) {
			return nil
		}
		matched = matched[offset:]
		if limit > 0 && limit < len(matched) {
			matched = matched[:limit]
		}
		for _, b := range matched {
			out = append(out, b.Clone())
		}
		return nil
	})
	return out, err
}

func (r *memoryBookingRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.store.run(ctx, func(tx *memoryTx) error {
		for id, b := range r.store.bookings {
			if _, staged := tx.bookings[id]; staged {
				continue
			}
			if b.UserID == userID {
				count++
			}
		}
		for _, b := range tx.bookings {
			if b.UserID == userID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *memoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.store.ExecuteTransaction(ctx, fn)
}
