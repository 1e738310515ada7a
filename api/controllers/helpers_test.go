package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/api/middleware"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

type identity struct {
	id   uuid.UUID
	role enums.UserRole
}

// asUser injects an authenticated identity the way the auth middleware does.
func asUser(who *identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if who != nil {
				r = r.WithContext(middleware.WithIdentity(r.Context(), who.id, who.role))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func serve(t *testing.T, who *identity, method, pattern, target string, body string, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Use(asUser(who))
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	envelope := struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return envelope.Error.Code
}
