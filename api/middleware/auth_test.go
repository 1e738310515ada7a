package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/auth"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "petcare", ExpirationMinutes: 60}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	userID := uuid.New()
	token := mintTestToken(t, userID, enums.UserRoleVeterinarian, "session-1")

	var captured struct {
		user     string
		role     enums.UserRole
		username string
		access   string
		staff    bool
	}
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		captured.user = UserIDFromContext(ctx)
		captured.role = RoleFromContext(ctx)
		captured.username = UsernameFromContext(ctx)
		captured.access = AccessIDFromContext(ctx)
		captured.staff = IsStaff(ctx)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user != userID.String() {
		t.Fatalf("unexpected user id %q", captured.user)
	}
	if captured.role != enums.UserRoleVeterinarian || !captured.staff {
		t.Fatalf("unexpected role %q staff=%v", captured.role, captured.staff)
	}
	if captured.username != "drlee" || captured.access != "session-1" {
		t.Fatalf("unexpected username/access %q %q", captured.username, captured.access)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintTestToken(t, uuid.New(), enums.UserRoleUser, "gone")
	handler := Auth(testJWT, stubSessionVerifier{ok: false}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSessionLookupFailure(t *testing.T) {
	token := mintTestToken(t, uuid.New(), enums.UserRoleUser, "s")
	handler := Auth(testJWT, stubSessionVerifier{err: errors.New("redis down")}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	var sawUser bool
	handler := OptionalAuth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = UserUUIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if sawUser {
		t.Fatal("anonymous request should carry no user")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token got %d", resp.Code)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer   abc ")
	if got := BearerToken(req); got != "abc" {
		t.Fatalf("unexpected token %q", got)
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(nil, enums.UserRoleAdmin)(okHandler())

	cases := []struct {
		role enums.UserRole
		want int
	}{
		{enums.UserRoleAdmin, http.StatusOK},
		{enums.UserRoleVeterinarian, http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		ctx := context.Background()
		if tc.role != "" {
			ctx = WithIdentity(ctx, uuid.New(), tc.role)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("role %q: expected %d got %d", tc.role, tc.want, resp.Code)
		}
	}
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	ctx := WithIdentity(context.Background(), uuid.New(), enums.UserRoleUser)
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func mintTestToken(t *testing.T, userID uuid.UUID, role enums.UserRole, jti string) string {
	t.Helper()
	token, err := auth.MintAccessToken(testJWT, time.Now(), auth.AccessTokenPayload{
		UserID:   userID,
		Username: "drlee",
		Role:     role,
		JTI:      jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(context.Context, string) (bool, error) {
	return s.ok, s.err
}
