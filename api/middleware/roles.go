package middleware

import (
	"net/http"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// RequireUser rejects anonymous callers. It runs after OptionalAuth.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserUUIDFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits callers holding any of roles. It must run after Auth
// or OptionalAuth.
func RequireRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserUUIDFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			current := RoleFromContext(r.Context())
			for _, role := range roles {
				if current == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
		})
	}
}
