package middleware

import (
	"context"
	"net/http"

	httputil "cinehub/pkg/http"
	"cinehub/pkg/logger"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// UserIDFromContext returns the caller resolved by Identity, or "" when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func reject(w http.ResponseWriter, log *logger.Logger, r *http.Request, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write error response",
			"request_id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", writeErr,
		)
	}
}
