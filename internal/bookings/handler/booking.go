package handler

import (
	"context"
	"net/http"

	"cinehub/internal/bookings/service"
	"cinehub/internal/bookings/validator"
	apperrors "cinehub/pkg/errors"
	httputil "cinehub/pkg/http"
	"cinehub/pkg/logger"
	"cinehub/pkg/middleware"
	"cinehub/pkg/model"
	"cinehub/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

// MovieLookup resolves a title when a show is created without one.
type MovieLookup interface {
	LookupByID(ctx context.Context, imdbID string) (*model.Movie, error)
}

type BookingHandler struct {
	service service.BookingService
	movies  MovieLookup
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, movies MovieLookup, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		movies:  movies,
		log:     log,
	}
}

type reserveBody struct {
	Seats        []string `json:"seats"`
	MovieTitle   string   `json:"movie_title,omitempty"`
	Cinema       string   `json:"cinema,omitempty"`
	PricePerSeat int64    `json:"price_per_seat,omitempty"`
}

func (h *BookingHandler) CreateShow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateShowRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, "CreateShow", err)
		return
	}

	movieID := sanitizer.NormalizeIMDbID(req.MovieID)
	if !validator.IsIMDbID(movieID) {
		h.writeError(w, r, "CreateShow", apperrors.InvalidInput("movie_id must be an IMDb id such as tt0111161"))
		return
	}

	defaults := model.ShowDefaults{MovieTitle: sanitizer.NormalizeTitle(req.MovieTitle)}
	if req.Datetime != nil {
		defaults.Datetime = *req.Datetime
	}

	if defaults.MovieTitle == "" {
		movie, err := h.movies.LookupByID(r.Context(), movieID)
		if err != nil {
			h.writeError(w, r, "CreateShow", err)
			return
		}
		defaults.MovieTitle = movie.Title
	}

	show, err := h.service.GetOrCreateShow(r.Context(), movieID, defaults)
	if err != nil {
		h.writeError(w, r, "CreateShow", err)
		return
	}

	if err := httputil.WriteSuccess(w, show); err != nil {
		h.log.Error("failed to write success response", "handler", "CreateShow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetShow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	show, err := h.service.GetShow(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetShow", err)
		return
	}

	if err := httputil.WriteSuccess(w, show); err != nil {
		h.log.Error("failed to write success response", "handler", "GetShow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.requireUser(w, r, "Reserve")
	if !ok {
		return
	}

	var body reserveBody
	if err := httputil.DecodeJSON(r, &body, false); err != nil {
		h.writeError(w, r, "Reserve", err)
		return
	}

	booking, err := h.service.ReserveSeats(r.Context(), &model.ReserveRequest{
		ShowID:       ps.ByName("id"),
		UserID:       userID,
		Seats:        body.Seats,
		MovieTitle:   body.MovieTitle,
		Cinema:       body.Cinema,
		PricePerSeat: body.PricePerSeat,
	})
	if err != nil {
		h.writeError(w, r, "Reserve", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Reserve", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := h.requireUser(w, r, "ListBookings")
	if !ok {
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, "ListBookings", err)
		return
	}

	bookings, total, err := h.service.ListBookingsForUser(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, r, "ListBookings", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListBookings", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.requireUser(w, r, "GetBooking")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, r, "GetBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBooking", "operation", "WriteSuccess", "error", err)
	}
}

// CancelBooking takes no body. Seats to release come from the stored booking.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := h.requireUser(w, r, "CancelBooking")
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeError(w, r, "CancelBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) requireUser(w http.ResponseWriter, r *http.Request, handler string) (string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, r, handler, apperrors.Unauthorized("Authentication required"))
		return "", false
	}
	return userID, true
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"handler", handler,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/shows", h.CreateShow)
	router.GET("/api/v1/shows/:id", h.GetShow)
	router.POST("/api/v1/shows/:id/reservations", h.Reserve)
	router.GET("/api/v1/bookings", h.ListBookings)
	router.GET("/api/v1/bookings/:id", h.GetBooking)
	router.POST("/api/v1/bookings/:id/cancel", h.CancelBooking)
}

