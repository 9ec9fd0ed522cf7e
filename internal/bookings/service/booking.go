package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	bookingserrors "cinehub/internal/bookings/errors"
	"cinehub/internal/bookings/repository"
	"cinehub/internal/bookings/validator"
	"cinehub/pkg/config"
	apperrors "cinehub/pkg/errors"
	"cinehub/pkg/metrics"
	"cinehub/pkg/model"
	"cinehub/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	opReserve = "reserve"
	opCancel  = "cancel"

	transientTxnLabel = "TransientTransactionError"
	retryBackoff      = 5 * time.Millisecond
)

type BookingService interface {
	GetOrCreateShow(ctx context.Context, movieID string, defaults model.ShowDefaults) (*model.Show, error)
	GetShow(ctx context.Context, showID string) (*model.Show, error)
	ReserveSeats(ctx context.Context, req *model.ReserveRequest) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID string) (*model.Booking, error)
	GetBooking(ctx context.Context, bookingID, userID string) (*model.Booking, error)
	ListBookingsForUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

// EventPublisher receives booking lifecycle events after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

type bookingService struct {
	shows     repository.ShowRepository
	bookings  repository.BookingRepository
	validator *validator.BookingValidator
	publisher EventPublisher
	cfg       *config.Config
	now       func() time.Time
	newID     func() string
}

func NewBookingService(
	shows repository.ShowRepository,
	bookings repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		shows:     shows,
		bookings:  bookings,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *bookingService) GetOrCreateShow(ctx context.Context, movieID string, defaults model.ShowDefaults) (*model.Show, error) {
	movieID = sanitizer.NormalizeIMDbID(movieID)
	if !validator.IsIMDbID(movieID) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid movie id: %q", movieID))
	}

	s.applyShowDefaults(&defaults)
	if err := s.validator.ValidateShowDefaults(&defaults); err != nil {
		s.cfg.Log.Warn("Show validation failed", "movie_id", movieID, "error", err)
		return nil, apperrors.Validation("Show validation failed", map[string]any{"errors": err})
	}

	show, err := s.shows.GetOrCreate(ctx, &model.Show{
		ID:           model.ShowIDForMovie(movieID),
		MovieID:      movieID,
		MovieTitle:   defaults.MovieTitle,
		Cinema:       defaults.Cinema,
		Datetime:     defaults.Datetime.UTC(),
		PricePerSeat: defaults.PricePerSeat,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to get or create show", "movie_id", movieID, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}

	return show, nil
}

func (s *bookingService) GetShow(ctx context.Context, showID string) (*model.Show, error) {
	showID = sanitizer.NormalizeShowID(showID)
	if showID == "" {
		return nil, apperrors.InvalidInput("Show ID cannot be empty")
	}

	show, err := s.shows.FindByID(ctx, showID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrShowNotFound) {
			return nil, apperrors.NotFoundWithID("Show", showID)
		}
		s.cfg.Log.Error("Failed to read show", "show_id", showID, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}

	return show, nil
}

func (s *bookingService) ReserveSeats(ctx context.Context, req *model.ReserveRequest) (*model.Booking, error) {
	s.sanitizeReserve(req)
	if err := s.validator.ValidateReserve(req); err != nil {
		metrics.TrackReservation(metrics.OutcomeInvalid, len(req.Seats))
		s.cfg.Log.Warn("Reservation validation failed", "show_id", req.ShowID, "user_id", req.UserID, "error", err)
		return nil, apperrors.Validation("Reservation validation failed", map[string]any{"errors": err})
	}

	var booking *model.Booking
	err := s.withRetry(ctx, opReserve, func(ctx context.Context) error {
		b, err := s.reserveOnce(ctx, req)
		booking = b
		return err
	})
	if err != nil {
		metrics.TrackReservation(reservationOutcome(err), len(req.Seats))
		s.logFailure("Failed to reserve seats", err, "show_id", req.ShowID, "user_id", req.UserID, "seats", req.Seats)
		return nil, err
	}

	metrics.TrackReservation(metrics.OutcomeSuccess, len(booking.Seats))
	s.cfg.Log.Info("Seats reserved",
		"booking_id", booking.ID,
		"show_id", booking.ShowID,
		"user_id", booking.UserID,
		"seats", booking.Seats,
		"amount", booking.Amount,
	)
	s.publish(ctx, model.EventBookingReserved, booking)
	return booking, nil
}

// reserveOnce is a single atomic attempt. It runs inside a store transaction.
func (s *bookingService) reserveOnce(ctx context.Context, req *model.ReserveRequest) (*model.Booking, error) {
	show, err := s.shows.FindByID(ctx, req.ShowID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrShowNotFound) {
			return nil, apperrors.NotFoundWithID("Show", req.ShowID)
		}
		return nil, err
	}

	if err := checkShowHints(req, show); err != nil {
		return nil, err
	}

	booked := show.SeatSet()
	if conflicts := booked.Intersect(req.Seats); len(conflicts) > 0 {
		return nil, apperrors.SeatConflict(conflicts)
	}

	booked.Add(req.Seats...)
	if err := s.shows.UpdateSeats(ctx, show.ID, show.Version, booked.Slice()); err != nil {
		return nil, err
	}

	seats := append([]string{}, req.Seats...)
	model.SortSeats(seats)

	booking := &model.Booking{
		ID:         s.newID(),
		UserID:     req.UserID,
		ShowID:     show.ID,
		MovieTitle: show.MovieTitle,
		Cinema:     show.Cinema,
		Seats:      seats,
		Amount:     int64(len(seats)) * show.PricePerSeat,
		Status:     model.BookingStatusBooked,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*model.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	userID = sanitizer.NormalizeUserID(userID)
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var (
		booking   *model.Booking
		cancelled bool
	)
	err := s.withRetry(ctx, opCancel, func(ctx context.Context) error {
		b, changed, err := s.cancelOnce(ctx, bookingID, userID)
		booking, cancelled = b, changed
		return err
	})
	if err != nil {
		metrics.TrackCancellation(reservationOutcome(err))
		s.logFailure("Failed to cancel booking", err, "booking_id", bookingID, "user_id", userID)
		return nil, err
	}

	if !cancelled {
		metrics.TrackCancellation(metrics.OutcomeNoop)
		s.cfg.Log.Debug("Booking already cancelled", "booking_id", bookingID)
		return booking, nil
	}

	metrics.TrackCancellation(metrics.OutcomeSuccess)
	s.cfg.Log.Info("Booking cancelled",
		"booking_id", booking.ID,
		"show_id", booking.ShowID,
		"seats", booking.Seats,
	)
	s.publish(ctx, model.EventBookingCancelled, booking)
	return booking, nil
}

// cancelOnce releases the booking's stored seats. changed is false when the
// booking was already cancelled.
func (s *bookingService) cancelOnce(ctx context.Context, bookingID, userID string) (*model.Booking, bool, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrBookingNotFound) {
			return nil, false, apperrors.NotFoundWithID("Booking", bookingID)
		}
		return nil, false, err
	}

	if err := checkOwner(booking, userID); err != nil {
		return nil, false, err
	}
	if booking.IsCancelled() {
		return booking, false, nil
	}

	show, err := s.shows.FindByID(ctx, booking.ShowID)
	switch {
	case err == nil:
		booked := show.SeatSet()
		booked.Remove(booking.Seats...)
		if err := s.shows.UpdateSeats(ctx, show.ID, show.Version, booked.Slice()); err != nil {
			return nil, false, err
		}
	case errors.Is(err, bookingserrors.ErrShowNotFound):
		s.cfg.Log.Warn("Cancelling booking of missing show", "booking_id", booking.ID, "show_id", booking.ShowID)
	default:
		return nil, false, err
	}

	at := s.now().UTC()
	if err := s.bookings.MarkCancelled(ctx, booking.ID, at); err != nil {
		return nil, false, err
	}

	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &at
	return booking, true, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID, userID string) (*model.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		s.cfg.Log.Error("Failed to read booking", "booking_id", bookingID, "error", err)
		return nil, apperrors.StoreUnavailable(err)
	}

	if err := checkOwner(booking, sanitizer.NormalizeUserID(userID)); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookingsForUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	userID = sanitizer.NormalizeUserID(userID)
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.bookings.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", userID, "error", errCount)
			errCount = apperrors.StoreUnavailable(errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.bookings.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"user_id", userID,
				"limit", limit,
				"offset", offset,
				"error", errFind,
			)
			errFind = apperrors.StoreUnavailable(errFind)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

// withRetry runs attempt in a fresh transaction until it commits, fails with
// a non-retryable error, or the attempt budget is spent.
func (s *bookingService) withRetry(ctx context.Context, op string, attempt func(ctx context.Context) error) error {
	maxAttempts := s.cfg.ReserveMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = config.DefaultReserveAttempts
	}

	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return apperrors.StoreUnavailable(err)
		}

		err := s.bookings.ExecuteTransaction(ctx, attempt)
		if err == nil {
			return nil
		}
		if apperrors.IsAppError(err) {
			return err
		}
		if !isRetryable(err) {
			return apperrors.StoreUnavailable(err)
		}

		lastErr = err
		metrics.TrackRetry(op)
		s.cfg.Log.Debug("Retrying transaction", "operation", op, "attempt", i, "error", err)

		if i < maxAttempts {
			select {
			case <-ctx.Done():
				return apperrors.StoreUnavailable(ctx.Err())
			case <-time.After(time.Duration(i) * retryBackoff):
			}
		}
	}

	return apperrors.StoreUnavailable(fmt.Errorf("%s gave up after %d attempts: %w", op, maxAttempts, lastErr))
}

func isRetryable(err error) bool {
	if errors.Is(err, bookingserrors.ErrVersionConflict) ||
		errors.Is(err, bookingserrors.ErrDuplicateBooking) ||
		errors.Is(err, bookingserrors.ErrAlreadyCancelled) {
		return true
	}
	var labeled mongo.LabeledError
	return errors.As(err, &labeled) && labeled.HasErrorLabel(transientTxnLabel)
}

func checkShowHints(req *model.ReserveRequest, show *model.Show) error {
	var stale []string
	if req.MovieTitle != "" && req.MovieTitle != show.MovieTitle {
		stale = append(stale, "movie_title")
	}
	if req.Cinema != "" && req.Cinema != show.Cinema {
		stale = append(stale, "cinema")
	}
	if req.PricePerSeat != 0 && req.PricePerSeat != show.PricePerSeat {
		stale = append(stale, "price_per_seat")
	}
	if len(stale) == 0 {
		return nil
	}
	return apperrors.InvalidInput("stale show data").WithDetails(map[string]any{
		"show_id": show.ID,
		"fields":  stale,
	})
}

// checkOwner allows an empty userID for internal callers.
func checkOwner(booking *model.Booking, userID string) error {
	if userID != "" && booking.UserID != userID {
		return apperrors.Forbidden("booking belongs to another user")
	}
	return nil
}

func (s *bookingService) sanitizeReserve(req *model.ReserveRequest) {
	req.ShowID = sanitizer.NormalizeShowID(req.ShowID)
	req.UserID = sanitizer.NormalizeUserID(req.UserID)
	req.Seats = sanitizer.NormalizeSeatIDs(req.Seats)
	req.MovieTitle = sanitizer.NormalizeTitle(req.MovieTitle)
	req.Cinema = sanitizer.NormalizeCinema(req.Cinema)
}

func (s *bookingService) applyShowDefaults(d *model.ShowDefaults) {
	d.MovieTitle = sanitizer.NormalizeTitle(d.MovieTitle)
	d.Cinema = sanitizer.NormalizeCinema(d.Cinema)
	if d.Cinema == "" {
		d.Cinema = s.cfg.DefaultCinema
	}
	if d.PricePerSeat == 0 {
		d.PricePerSeat = s.cfg.DefaultPricePerSeat
	}
	if d.Datetime.IsZero() {
		d.Datetime = s.now().UTC().Truncate(time.Second)
	}
}

func (s *bookingService) publish(ctx context.Context, event string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(context.WithoutCancel(ctx), model.NewBookingEvent(event, booking, s.now()))
	metrics.TrackEventPublished(event, err)
	if err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event", event,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// logFailure keeps expected client errors at warn level.
func (s *bookingService) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if apperrors.HasCode(err, apperrors.CodeUnavailable) {
		s.cfg.Log.Error(msg, args...)
		return
	}
	s.cfg.Log.Warn(msg, args...)
}

func reservationOutcome(err error) string {
	appErr := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.CodeSeatConflict:
		return metrics.OutcomeConflict
	case apperrors.CodeNotFound:
		return metrics.OutcomeNotFound
	case apperrors.CodeForbidden:
		return metrics.OutcomeForbidden
	case apperrors.CodeInvalidInput, apperrors.CodeValidation:
		return metrics.OutcomeInvalid
	case apperrors.CodeUnavailable:
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeError
	}
}
