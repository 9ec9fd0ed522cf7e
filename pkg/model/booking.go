package model

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID          string        `json:"id" bson:"_id"`
	UserID      string        `json:"user_id" bson:"user_id"`
	ShowID      string        `json:"show_id" bson:"show_id"`
	MovieTitle  string        `json:"movie_title" bson:"movie_title"`
	Cinema      string        `json:"cinema" bson:"cinema"`
	Seats       []string      `json:"seats" bson:"seats"`
	Amount      int64         `json:"amount" bson:"amount"`
	Status      BookingStatus `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// ReserveRequest asks for seats on one show. MovieTitle, Cinema and
// PricePerSeat are optional; when set they must match the stored show.
type ReserveRequest struct {
	ShowID       string   `json:"show_id" validate:"required,show_id"`
	UserID       string   `json:"user_id" validate:"required,max=128"`
	Seats        []string `json:"seats" validate:"required,min=1,max=60,unique,dive,seat_id"`
	MovieTitle   string   `json:"movie_title,omitempty" validate:"omitempty,max=300"`
	Cinema       string   `json:"cinema,omitempty" validate:"omitempty,max=100"`
	PricePerSeat int64    `json:"price_per_seat,omitempty" validate:"omitempty,min=1"`
}

type CheckoutRequest struct {
	MovieID string   `json:"movie_id" validate:"required,imdb_id"`
	Seats   []string `json:"seats" validate:"required,min=1,max=60,unique,dive,seat_id"`
}

func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	out := *b
	out.Seats = append([]string{}, b.Seats...)
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		out.CancelledAt = &at
	}
	return &out
}

// CheckoutResult is what a completed checkout hands back to the caller.
type CheckoutResult struct {
	Booking          *Booking `json:"booking"`
	Show             *Show    `json:"show"`
	PaymentReference string   `json:"payment_reference"`
}
