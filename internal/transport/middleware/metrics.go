package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rolltime/backend/internal/observability"
)

// Metrics returns middleware that records request latency into the
// Prometheus histogram, labeled by method and response status.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			observability.HTTPRequestDuration.
				WithLabelValues(r.Method, strconv.Itoa(sw.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}
