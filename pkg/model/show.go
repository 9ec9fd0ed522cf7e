package model

import (
	"fmt"
	"time"
)

const ShowIDPrefix = "show_"

type Show struct {
	ID           string    `json:"id" bson:"_id"`
	MovieID      string    `json:"movie_id" bson:"movie_id"`
	MovieTitle   string    `json:"movie_title" bson:"movie_title"`
	Cinema       string    `json:"cinema" bson:"cinema"`
	Datetime     time.Time `json:"datetime" bson:"datetime"`
	PricePerSeat int64     `json:"price_per_seat" bson:"price_per_seat"`
	BookedSeats  []string  `json:"booked_seats" bson:"booked_seats"`
	Version      int64     `json:"version" bson:"version"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// ShowDefaults are the descriptive fields applied only when a show is first created.
type ShowDefaults struct {
	MovieTitle   string    `json:"movie_title" validate:"required,min=1,max=300"`
	Cinema       string    `json:"cinema" validate:"required,min=1,max=100"`
	Datetime     time.Time `json:"datetime" validate:"required"`
	PricePerSeat int64     `json:"price_per_seat" validate:"required,min=1"`
}

type CreateShowRequest struct {
	MovieID    string     `json:"movie_id" validate:"required,imdb_id"`
	MovieTitle string     `json:"movie_title,omitempty" validate:"omitempty,max=300"`
	Datetime   *time.Time `json:"datetime,omitempty"`
}

// ShowIDForMovie derives the single show a movie maps to.
func ShowIDForMovie(movieID string) string {
	return fmt.Sprintf("%s%s", ShowIDPrefix, movieID)
}

func (s *Show) SeatSet() SeatSet {
	return NewSeatSet(s.BookedSeats...)
}

// AvailableSeats lists grid seats not yet booked, in row-major order.
func (s *Show) AvailableSeats() []string {
	booked := s.SeatSet()
	var out []string
	for _, seat := range AllSeats() {
		if !booked.Has(seat) {
			out = append(out, seat)
		}
	}
	return out
}

func (s *Show) Clone() *Show {
	if s == nil {
		return nil
	}
	out := *s
	out.BookedSeats = append([]string{}, s.BookedSeats...)
	return &out
}
