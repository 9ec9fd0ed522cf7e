package service

import (
	"context"

	"cinehub/internal/bookings/validator"
	"cinehub/internal/checkout/core"
	"cinehub/internal/checkout/flows"
	apperrors "cinehub/pkg/errors"
	"cinehub/pkg/logger"
	"cinehub/pkg/model"
	"cinehub/pkg/sanitizer"
)

type CheckoutService struct {
	engine    *core.Engine
	validator *validator.BookingValidator
	log       *logger.Logger
}

func NewCheckoutService(deps flows.Deps, validator *validator.BookingValidator, log *logger.Logger) *CheckoutService {
	return &CheckoutService{
		engine:    core.NewEngine(log, flows.NewBookTicketsFlow(deps)),
		validator: validator,
		log:       log,
	}
}

func (s *CheckoutService) Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.CheckoutResult, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	req.MovieID = sanitizer.NormalizeIMDbID(req.MovieID)
	req.Seats = sanitizer.NormalizeSeatIDs(req.Seats)
	if err := s.validator.ValidateCheckout(req); err != nil {
		s.log.Warn("Checkout validation failed", "movie_id", req.MovieID, "user_id", userID, "error", err)
		return nil, apperrors.Validation("Checkout validation failed", map[string]any{"errors": err})
	}

	fc := core.NewFlowContext(ctx, userID, map[string]any{
		flows.MOVIE_ID: req.MovieID,
		flows.SEATS:    req.Seats,
	})
	if err := s.engine.Run(flows.BookTickets, fc); err != nil {
		return nil, err
	}

	booking, _ := fc.Output[flows.BOOKING].(*model.Booking)
	show, _ := fc.Output[flows.SHOW].(*model.Show)
	ref, _ := fc.Output[flows.PAYMENT_REFERENCE].(string)

	s.log.Info("Checkout completed",
		"booking_id", booking.ID,
		"show_id", show.ID,
		"user_id", userID,
		"payment_reference", ref,
	)

	return &model.CheckoutResult{
		Booking:          booking,
		Show:             show,
		PaymentReference: ref,
	}, nil
}

func (s *CheckoutService) Flows() []string {
	return s.engine.Flows()
}
