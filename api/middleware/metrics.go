package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/petcareclinic/petcare-backend/pkg/metrics"
)

// Metrics records one observation per request labelled by the matched chi
// route pattern.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			m.Observe(r.Method, routePattern(r), statusOf(ww), time.Since(start))
		})
	}
}
