package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/petcareclinic/petcare-backend/api/responses"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	pkgredis "github.com/petcareclinic/petcare-backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
	maxIdempotencyKeyLen   = 255
)

type idempotencyRule struct {
	method string
	path   string // "*" matches exactly one segment
	ttl    time.Duration
}

var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, path: "/api/orders", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, path: "/api/cart/items", ttl: defaultIdempotencyTTL},
	{method: http.MethodPatch, path: "/api/orders/*/cancel", ttl: defaultIdempotencyTTL},
}

type idempotencyRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// the routes listed in idempotencyRules. Reusing a key with a different body
// is rejected. Server errors are not stored so the client may retry.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, r.URL.Path)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if idempotencyKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}
			if len(idempotencyKey) > maxIdempotencyKeyLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(buildScope(r), idempotencyKey)

			stored, err := store.Get(r.Context(), key)
			if err != nil && !errors.Is(err, redis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if stored != "" {
				var record idempotencyRecord
				if err := json.Unmarshal([]byte(stored), &record); err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				w.Header().Set("Idempotent-Replayed", "true")
				writeStoredResponse(w, &record)
				return
			}

			var respBody bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&respBody)
			next.ServeHTTP(ww, r)

			status := statusOf(ww)
			if status >= http.StatusInternalServerError {
				return
			}
			record := idempotencyRecord{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(respBody.Bytes()),
				RequestHash: requestHash,
			}
			if ct := ww.Header().Get("Content-Type"); ct != "" {
				record.Headers = map[string]string{"Content-Type": ct}
			}
			payload, err := json.Marshal(record)
			if err != nil {
				logError(r.Context(), logg, "marshal idempotency record", err)
				return
			}
			if _, err := store.SetNX(r.Context(), key, string(payload), ttl); err != nil {
				logError(r.Context(), logg, "persist idempotency record", err)
			}
		})
	}
}

// buildScope ties a key to the caller and the exact resource.
func buildScope(r *http.Request) string {
	return strings.Join([]string{UserIDFromContext(r.Context()), r.Method, r.URL.Path}, "|")
}

func writeStoredResponse(w http.ResponseWriter, record *idempotencyRecord) {
	if ct := record.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func routeTTL(method, path string) (time.Duration, bool) {
	path = strings.TrimSuffix(path, "/")
	for _, rule := range idempotencyRules {
		if rule.method == method && matchPath(rule.path, path) {
			return rule.ttl, true
		}
	}
	return 0, false
}

func matchPath(pattern, path string) bool {
	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] == "*" {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
