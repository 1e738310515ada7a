package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/petcareclinic/petcare-backend/api/responses"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy throttles one auth surface per client IP and per
// submitted identity (email or login name).
type AuthRateLimitPolicy struct {
	name          string
	window        time.Duration
	ipLimit       int
	identityLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, identityLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:          name,
		window:        window,
		ipLimit:       ipLimit,
		identityLimit: identityLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.identityLimit > 0)
}

func (p AuthRateLimitPolicy) scope(kind, value string) string {
	return p.name + ":" + kind + ":" + value
}

func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				if ip := clientIP(r); ip != "" {
					if !check(ctx, w, logg, store, policy, "ip", ip, policy.ipLimit) {
						return
					}
				}
			}

			if policy.identityLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if identity := extractIdentity(body); identity != "" {
					if !check(ctx, w, logg, store, policy, "identity", hashValue(identity), policy.identityLimit) {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check counts one attempt and writes the rejection itself when over limit.
func check(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, store rateLimiterStore, policy AuthRateLimitPolicy, kind, value string, limit int) bool {
	allowed, count, err := store.FixedWindowAllow(ctx, policy.scope(kind, value), int64(limit), policy.window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if allowed {
		return true
	}
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"scope":          kind,
			"policy":         policy.name,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		}), "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
	return false
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// extractIdentity reads the email field of a registration or the login
// field of a sign-in.
func extractIdentity(payload []byte) string {
	var body struct {
		Email string `json:"email"`
		Login string `json:"login"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	identity := body.Email
	if identity == "" {
		identity = body.Login
	}
	return strings.ToLower(strings.TrimSpace(identity))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
