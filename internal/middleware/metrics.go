package middleware

import (
	"net/http"
	"time"

	"github.com/templui/portfolio/internal/metrics"
)

// Metrics records request counts and latency by route pattern. It must wrap
// the ServeMux directly, so that the mux sets Pattern on the same request.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapResponseWriter(w)

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
