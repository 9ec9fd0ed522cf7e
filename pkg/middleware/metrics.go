package middleware

import (
	"net/http"
	"strings"
	"time"

	"cinehub/pkg/metrics"
)

// Metrics records request counts and latency per route. Path parameters are
// collapsed so label cardinality stays bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			metrics.TrackHTTPRequest(r.Method, RouteLabel(r.URL.Path), wrapped.statusCode, time.Since(start))
		})
	}
}

var paramAfter = map[string]bool{
	"shows":    true,
	"bookings": true,
	"id":       true,
}

// RouteLabel turns /api/v1/shows/show_tt1/reservations into
// /api/v1/shows/:id/reservations.
func RouteLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 1; i < len(segments); i++ {
		if paramAfter[segments[i-1]] && segments[i] != "" {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}
