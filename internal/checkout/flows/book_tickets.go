package flows

import (
	"context"
	"errors"

	"cinehub/internal/bookings/service"
	"cinehub/internal/checkout/core"
	"cinehub/internal/checkout/payment"
	"cinehub/pkg/model"
)

const (
	BookTickets = "book_tickets"

	StepLookupMovie    = "lookup_movie"
	StepEnsureShow     = "ensure_show"
	StepReserveSeats   = "reserve_seats"
	StepCapturePayment = "capture_payment"

	MOVIE_ID          = "movie_id"
	SEATS             = "seats"
	MOVIE             = "movie"
	SHOW              = "show"
	BOOKING           = "booking"
	PAYMENT_REFERENCE = "payment_reference"
)

type MovieLookup interface {
	LookupByID(ctx context.Context, imdbID string) (*model.Movie, error)
}

type Deps struct {
	Movies   MovieLookup
	Bookings service.BookingService
	Payments payment.Gateway
}

// NewBookTicketsFlow chains movie detail, show creation, seat selection and
// payment into one request.
func NewBookTicketsFlow(deps Deps) core.Flow {
	return core.NewFlow(BookTickets,
		core.NewStep(StepLookupMovie, lookupMovie(deps.Movies)),
		core.NewStep(StepEnsureShow, ensureShow(deps.Bookings)),
		core.NewStep(StepReserveSeats, reserveSeats(deps.Bookings)),
		core.NewStep(StepCapturePayment, capturePayment(deps.Payments, deps.Bookings)),
	)
}

func lookupMovie(movies MovieLookup) func(*core.FlowContext) error {
	return func(ctx *core.FlowContext) error {
		movieID, err := ctx.ExtractString(MOVIE_ID)
		if err != nil {
			return err
		}
		movie, err := movies.LookupByID(ctx.Ctx, movieID)
		if err != nil {
			return err
		}
		ctx.Process[MOVIE] = movie
		return nil
	}
}

func ensureShow(bookings service.BookingService) func(*core.FlowContext) error {
	return func(ctx *core.FlowContext) error {
		movieID, err := ctx.ExtractString(MOVIE_ID)
		if err != nil {
			return err
		}
		movie, err := core.Lookup[*model.Movie](ctx, MOVIE)
		if err != nil {
			return err
		}
		show, err := bookings.GetOrCreateShow(ctx.Ctx, movieID, model.ShowDefaults{MovieTitle: movie.Title})
		if err != nil {
			return err
		}
		ctx.Process[SHOW] = show
		return nil
	}
}

func reserveSeats(bookings service.BookingService) func(*core.FlowContext) error {
	return func(ctx *core.FlowContext) error {
		seats, err := ctx.ExtractStrings(SEATS)
		if err != nil {
			return err
		}
		show, err := core.Lookup[*model.Show](ctx, SHOW)
		if err != nil {
			return err
		}
		booking, err := bookings.ReserveSeats(ctx.Ctx, &model.ReserveRequest{
			ShowID: show.ID,
			UserID: ctx.UserID,
			Seats:  seats,
		})
		if err != nil {
			return err
		}
		ctx.Process[BOOKING] = booking
		ctx.Output[BOOKING] = booking

		if fresh, err := bookings.GetShow(ctx.Ctx, show.ID); err == nil {
			show = fresh
		}
		ctx.Output[SHOW] = show
		return nil
	}
}

// capturePayment releases the reserved seats when the capture fails.
func capturePayment(payments payment.Gateway, bookings service.BookingService) func(*core.FlowContext) error {
	return func(ctx *core.FlowContext) error {
		booking, err := core.Lookup[*model.Booking](ctx, BOOKING)
		if err != nil {
			return err
		}
		ref, err := payments.Capture(ctx.Ctx, booking)
		if err != nil {
			delete(ctx.Output, BOOKING)
			if _, cancelErr := bookings.CancelBooking(context.WithoutCancel(ctx.Ctx), booking.ID, ctx.UserID); cancelErr != nil {
				return errors.Join(err, cancelErr)
			}
			return err
		}
		ctx.Output[PAYMENT_REFERENCE] = ref
		return nil
	}
}
