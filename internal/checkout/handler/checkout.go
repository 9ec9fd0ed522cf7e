package handler

import (
	"context"
	"net/http"

	apperrors "cinehub/pkg/errors"
	httputil "cinehub/pkg/http"
	"cinehub/pkg/logger"
	"cinehub/pkg/middleware"
	"cinehub/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Checkouter interface {
	Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.CheckoutResult, error)
}

type CheckoutHandler struct {
	service Checkouter
	log     *logger.Logger
}

func NewCheckoutHandler(service Checkouter, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		log:     log,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		h.writeError(w, r, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req model.CheckoutRequest
	if err := httputil.DecodeJSON(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.Checkout(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Checkout", "operation", "WriteCreated", "error", err)
	}
}

func (h *CheckoutHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("checkout failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Checkout", "operation", "WriteError", "error", writeErr)
	}
}

func (h *CheckoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/checkout", h.Checkout)
}
