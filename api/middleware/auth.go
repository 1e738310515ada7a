package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/petcareclinic/petcare-backend/api/responses"
	pkgAuth "github.com/petcareclinic/petcare-backend/pkg/auth"
	"github.com/petcareclinic/petcare-backend/pkg/auth/session"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// Auth requires a valid bearer token backed by a live session.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, verifier, logg, true)
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return authenticate(cfg, verifier, logg, false)
}

func authenticate(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				msg := "invalid token"
				if pkgAuth.IsExpired(err) {
					msg = "token expired"
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msg))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithIdentity(r.Context(), claims.UserID, claims.Role)
			ctx = context.WithValue(ctx, ctxUsername, claims.Username)
			ctx = context.WithValue(ctx, ctxAccessID, claims.ID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
				ctx = logg.WithActorRole(ctx, string(claims.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = raw[7:]
	}
	return strings.TrimSpace(raw)
}
