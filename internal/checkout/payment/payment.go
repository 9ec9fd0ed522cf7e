package payment

import (
	"context"

	"cinehub/pkg/logger"
	"cinehub/pkg/model"

	"github.com/google/uuid"
)

type Gateway interface {
	Capture(ctx context.Context, booking *model.Booking) (string, error)
}

// ApprovingGateway accepts every capture and hands out a fresh reference.
type ApprovingGateway struct {
	log   *logger.Logger
	newID func() string
}

func NewApprovingGateway(log *logger.Logger) *ApprovingGateway {
	return &ApprovingGateway{log: log, newID: uuid.NewString}
}

func (g *ApprovingGateway) Capture(ctx context.Context, booking *model.Booking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref := g.newID()
	g.log.Info("payment captured",
		"booking_id", booking.ID,
		"user_id", booking.UserID,
		"amount", booking.Amount,
		"payment_reference", ref,
	)
	return ref, nil
}
