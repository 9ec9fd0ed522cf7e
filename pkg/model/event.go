package model

import "time"

const (
	EventBookingReserved  = "booking.reserved"
	EventBookingCancelled = "booking.cancelled"
)

type BookingEvent struct {
	Event      string        `json:"event"`
	BookingID  string        `json:"booking_id"`
	ShowID     string        `json:"show_id"`
	UserID     string        `json:"user_id"`
	Seats      []string      `json:"seats"`
	Amount     int64         `json:"amount"`
	Status     BookingStatus `json:"status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewBookingEvent(event string, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Event:      event,
		BookingID:  b.ID,
		ShowID:     b.ShowID,
		UserID:     b.UserID,
		Seats:      b.Seats,
		Amount:     b.Amount,
		Status:     b.Status,
		OccurredAt: at.UTC(),
	}
}
