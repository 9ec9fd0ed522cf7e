package middleware

import (
	"net/http"

	apperrors "cinehub/pkg/errors"
	httputil "cinehub/pkg/http"
)

// MaxRequestSize caps request bodies at limit bytes. A declared length over
// the cap is rejected up front; a streamed body fails on the first read past it.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = httputil.WriteError(w, apperrors.New("PAYLOAD_TOO_LARGE", "Request body too large", http.StatusRequestEntityTooLarge))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
