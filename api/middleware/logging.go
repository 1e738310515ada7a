package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// Logging emits one line per request. 5xx responses log at warn so they
// surface without the noise of client errors.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			logg.Debug(ctx, "request.start")

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := statusOf(ww)
			ctx = logg.WithFields(ctx, map[string]any{
				"route":       routePattern(r),
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			logRequest(ctx, logg, status)
		})
	}
}

func logRequest(ctx context.Context, logg *logger.Logger, status int) {
	if status >= http.StatusInternalServerError {
		logg.Warn(ctx, "request.complete")
		return
	}
	logg.Info(ctx, "request.complete")
}

// statusOf treats a handler that never wrote as an implicit 200.
func statusOf(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

// routePattern is filled in by chi once routing completes, so it is only
// meaningful after next has run.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
