package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cinehub/internal/bookings/repository"
	"cinehub/internal/bookings/service"
	"cinehub/internal/bookings/validator"
	"cinehub/pkg/config"
	apperrors "cinehub/pkg/errors"
	"cinehub/pkg/logger"
	"cinehub/pkg/middleware"
	"cinehub/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMovies struct {
	titles map[string]string
	calls  int
}

func (s *stubMovies) LookupByID(_ context.Context, imdbID string) (*model.Movie, error) {
	s.calls++
	title, ok := s.titles[imdbID]
	if !ok {
		return nil, apperrors.NotFoundWithID("Movie", imdbID)
	}
	return &model.Movie{ImdbID: imdbID, Title: title}, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, model.BookingEvent) error { return nil }

type testAPI struct {
	router *httprouter.Router
	movies *stubMovies
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := &config.Config{
		Log:                 logger.Discard(),
		DefaultCinema:       config.DefaultCinema,
		DefaultPricePerSeat: config.DefaultPricePerSeat,
		ReserveMaxAttempts:  config.DefaultReserveAttempts,
	}
	store := repository.NewMemoryStore()
	svc := service.NewBookingService(store.Shows(), store.Bookings(), validator.NewBookingValidator(cfg.Log), noopPublisher{}, cfg)
	movies := &stubMovies{titles: map[string]string{"tt0133093": "The Matrix"}}

	router := httprouter.New()
	NewBookingHandler(svc, movies, cfg.Log).RegisterRoutes(router)
	return &testAPI{router: router, movies: movies}
}

func (a *testAPI) do(method, path, user, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Data       T     `json:"data"`
	TotalCount int64 `json:"total_count"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestCreateShow_TitleFromMovieLookup(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0133093"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	show := decode[model.Show](t, rec)
	assert.Equal(t, "show_tt0133093", show.ID)
	assert.Equal(t, "The Matrix", show.MovieTitle)
	assert.Equal(t, config.DefaultCinema, show.Cinema)
	assert.EqualValues(t, 250, show.PricePerSeat)
	assert.Empty(t, show.BookedSeats)
	assert.Equal(t, 1, api.movies.calls)

	rec = api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0133093","movie_title":"Given Title"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The Matrix", decode[model.Show](t, rec).MovieTitle, "existing show is returned unchanged")
	assert.Equal(t, 1, api.movies.calls, "explicit title skips the lookup")
}

func TestCreateShow_Errors(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"matrix"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0000001"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0133093","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")
}

func TestGetShow(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0133093"}`)

	rec := api.do(http.MethodGet, "/api/v1/shows/show_tt0133093", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/v1/shows/show_tt0000001", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.CodeNotFound, decodeError(t, rec).Code)
}

func TestReserve_FlowAndConflict(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0133093"}`)

	rec := api.do(http.MethodPost, "/api/v1/shows/show_tt0133093/reservations", "alice", `{"seats":["b2"," a1 "]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	booking := decode[model.Booking](t, rec)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "alice", booking.UserID)
	assert.Equal(t, []string{"A1", "B2"}, booking.Seats)
	assert.EqualValues(t, 500, booking.Amount)
	assert.Equal(t, model.BookingStatusBooked, booking.Status)

	rec = api.do(http.MethodPost, "/api/v1/shows/show_tt0133093/reservations", "bob", `{"seats":["C3","B2","A1"]}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, apperrors.CodeSeatConflict, resp.Code)
	assert.ElementsMatch(t, []any{"A1", "B2"}, resp.Details[apperrors.DetailConflictingSeats])
}

func TestReserve_Validation(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0133093"}`)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"outside grid", `{"seats":["G1"]}`, http.StatusUnprocessableEntity},
		{"duplicates", `{"seats":["A1","a1"]}`, http.StatusUnprocessableEntity},
		{"empty", `{"seats":[]}`, http.StatusUnprocessableEntity},
		{"stale price", `{"seats":["A1"],"price_per_seat":100}`, http.StatusBadRequest},
		{"user_id in body", `{"seats":["A1"],"user_id":"mallory"}`, http.StatusBadRequest},
		{"malformed", `{"seats":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/v1/shows/show_tt0133093/reservations", "alice", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestReserve_RequiresUser(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/shows/show_tt0133093/reservations", "", `{"seats":["A1"]}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReserve_UnknownShow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/v1/shows/show_tt0000001/reservations", "alice", `{"seats":["A1"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookings_ListGetCancel(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/v1/shows", "alice", `{"movie_id":"tt0133093"}`)

	var ids []string
	for _, seats := range []string{`["A1"]`, `["A2","A3"]`, `["A4"]`} {
		rec := api.do(http.MethodPost, "/api/v1/shows/show_tt0133093/reservations", "alice", `{"seats":`+seats+`}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decode[model.Booking](t, rec).ID)
	}
	api.do(http.MethodPost, "/api/v1/shows/show_tt0133093/reservations", "bob", `{"seats":["F10"]}`)

	rec := api.do(http.MethodGet, "/api/v1/bookings?limit=2", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page envelope[[]model.Booking]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 3, page.TotalCount)
	require.Len(t, page.Data, 2)
	assert.Equal(t, ids[2], page.Data[0].ID, "newest first")
	assert.Equal(t, ids[1], page.Data[1].ID)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/bookings?limit=x", "alice", "").Code)

	rec = api.do(http.MethodGet, "/api/v1/bookings/"+ids[1], "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"A2", "A3"}, decode[model.Booking](t, rec).Seats)

	rec = api.do(http.MethodGet, "/api/v1/bookings/"+ids[1], "bob", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/bookings/"+ids[1]+"/cancel", "bob", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodPost, "/api/v1/bookings/"+ids[1]+"/cancel", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cancelled := decode[model.Booking](t, rec)
	assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	rec = api.do(http.MethodPost, "/api/v1/bookings/"+ids[1]+"/cancel", "alice", "")
	assert.Equal(t, http.StatusOK, rec.Code, "cancel is idempotent")

	rec = api.do(http.MethodGet, "/api/v1/shows/show_tt0133093", "alice", "")
	show := decode[model.Show](t, rec)
	assert.Equal(t, []string{"A1", "A4", "F10"}, show.BookedSeats)

	rec = api.do(http.MethodPost, "/api/v1/bookings/missing/cancel", "alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	router := httprouter.New()
	failing := errors.New("no route to host")
	NewHealthHandler(map[string]Check{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return failing },
	}, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"mongo":"ok","redis":"error"}}`, rec.Body.String())
}
