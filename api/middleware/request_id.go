package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 128
)

// RequestID propagates the caller's request id or mints one.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
