package validator

import (
	"errors"
	"testing"
	"time"

	"cinehub/pkg/logger"
	"cinehub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.Discard())
}

func validReserve() *model.ReserveRequest {
	return &model.ReserveRequest{
		ShowID: "show_tt0111161",
		UserID: "user-1",
		Seats:  []string{"A1", "A2", "F10"},
	}
}

func TestValidateReserve(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name      string
		mutate    func(r *model.ReserveRequest)
		wantField string
	}{
		{name: "valid", mutate: func(r *model.ReserveRequest) {}},
		{name: "missing seats", mutate: func(r *model.ReserveRequest) { r.Seats = nil }, wantField: "seats"},
		{name: "empty seats", mutate: func(r *model.ReserveRequest) { r.Seats = []string{} }, wantField: "seats"},
		{name: "duplicate seats", mutate: func(r *model.ReserveRequest) { r.Seats = []string{"A1", "A1"} }, wantField: "seats"},
		{name: "row outside grid", mutate: func(r *model.ReserveRequest) { r.Seats = []string{"G1"} }, wantField: "seats[0]"},
		{name: "column outside grid", mutate: func(r *model.ReserveRequest) { r.Seats = []string{"A1", "A11"} }, wantField: "seats[1]"},
		{name: "column zero", mutate: func(r *model.ReserveRequest) { r.Seats = []string{"A0"} }, wantField: "seats[0]"},
		{name: "lowercase seat", mutate: func(r *model.ReserveRequest) { r.Seats = []string{"a1"} }, wantField: "seats[0]"},
		{name: "missing user", mutate: func(r *model.ReserveRequest) { r.UserID = "" }, wantField: "user_id"},
		{name: "bad show id", mutate: func(r *model.ReserveRequest) { r.ShowID = "tt0111161" }, wantField: "show_id"},
		{name: "negative price hint", mutate: func(r *model.ReserveRequest) { r.PricePerSeat = -5 }, wantField: "price_per_seat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReserve()
			tt.mutate(req)

			err := v.ValidateReserve(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidateReserve_AllGridSeats(t *testing.T) {
	v := newValidator()
	req := validReserve()
	req.Seats = model.AllSeats()

	assert.NoError(t, v.ValidateReserve(req))
}

func TestValidateReserve_DuplicateMessage(t *testing.T) {
	v := newValidator()
	req := validReserve()
	req.Seats = []string{"B3", "B3"}

	err := v.ValidateReserve(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not contain duplicates")
}

func TestValidateCreateShow(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateCreateShow(&model.CreateShowRequest{MovieID: "tt0133093"}))
	assert.Error(t, v.ValidateCreateShow(&model.CreateShowRequest{MovieID: "0133093"}))
	assert.Error(t, v.ValidateCreateShow(&model.CreateShowRequest{}))
}

func TestValidateShowDefaults(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateShowDefaults(&model.ShowDefaults{
		MovieTitle:   "The Matrix",
		Cinema:       "CinemaHub Main",
		Datetime:     time.Now(),
		PricePerSeat: 250,
	}))
	assert.Error(t, v.ValidateShowDefaults(&model.ShowDefaults{
		MovieTitle: "The Matrix",
		Cinema:     "CinemaHub Main",
		Datetime:   time.Now(),
	}))
}

func TestValidateCheckout(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.ValidateCheckout(&model.CheckoutRequest{MovieID: "tt0133093", Seats: []string{"C4"}}))
	assert.Error(t, v.ValidateCheckout(&model.CheckoutRequest{MovieID: "tt0133093", Seats: []string{"C4", "C4"}}))
	assert.Error(t, v.ValidateCheckout(&model.CheckoutRequest{MovieID: "matrix", Seats: []string{"C4"}}))
}

func TestIsIMDbID(t *testing.T) {
	assert.True(t, IsIMDbID("tt0111161"))
	assert.True(t, IsIMDbID("tt10872600"))
	assert.False(t, IsIMDbID("tt123"))
	assert.False(t, IsIMDbID("TT0111161"))
}
