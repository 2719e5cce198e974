package middleware

import (
	"net/http"
	"time"

	"techevents/internal/metrics"
)

// Metrics records every request against the mux pattern that serves it, so
// path parameters do not explode the label set. Unmatched requests are
// recorded under "unmatched".
func Metrics(m *metrics.HTTP, mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, route := mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(wrapped, r)
		m.Observe(r.Method, route, wrapped.status, time.Since(start))
	})
}
