package handler

import (
	"net/http"
	"strconv"

	"cinehub/internal/movies/service"
	apperrors "cinehub/pkg/errors"
	httputil "cinehub/pkg/http"
	"cinehub/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type MovieHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewMovieHandler(service service.CatalogService, log *logger.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log,
	}
}

func (h *MovieHandler) Featured(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	movies, err := h.service.Featured(r.Context())
	if err != nil {
		h.writeError(w, "Featured", err)
		return
	}
	h.writeSuccess(w, "Featured", movies)
}

func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			h.writeError(w, "Search", apperrors.InvalidInput("invalid page parameter: "+s))
			return
		}
		page = v
	}

	result, err := h.service.Search(r.Context(), query.Get("q"), page)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	h.writeSuccess(w, "Search", result)
}

func (h *MovieHandler) ByTitle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	movie, err := h.service.LookupByTitle(r.Context(), r.URL.Query().Get("t"))
	if err != nil {
		h.writeError(w, "ByTitle", err)
		return
	}
	h.writeSuccess(w, "ByTitle", movie)
}

func (h *MovieHandler) ByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	movie, err := h.service.LookupByID(r.Context(), ps.ByName("imdb_id"))
	if err != nil {
		h.writeError(w, "ByID", err)
		return
	}
	h.writeSuccess(w, "ByID", movie)
}

func (h *MovieHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("movie request failed", "handler", handler, "error", err)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *MovieHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *MovieHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/movies/featured", h.Featured)
	router.GET("/api/v1/movies/search", h.Search)
	router.GET("/api/v1/movies/title", h.ByTitle)
	router.GET("/api/v1/movies/id/:imdb_id", h.ByID)
}
