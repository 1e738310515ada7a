package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/internal/auth"
	"github.com/petcareclinic/petcare-backend/internal/users"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

type fakeAuthService struct {
	loginReq   auth.LoginRequest
	refreshReq auth.RefreshRequest
	loggedOut  string
	loginErr   error
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	f.loginReq = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}, nil
}

func (f *fakeAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	f.refreshReq = req
	return &auth.RefreshResponse{AccessToken: "access-2", RefreshToken: "refresh-2", TokenType: "Bearer"}, nil
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.loggedOut = token
	return nil
}

type fakeRegisterService struct {
	err error
	req auth.RegisterRequest
}

func (f *fakeRegisterService) Register(_ context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &users.UserDTO{ID: uuid.New(), Username: req.Username}, nil
}

func TestAuthLoginReturnsTokens(t *testing.T) {
	svc := &fakeAuthService{}
	rec := serve(t, nil, http.MethodPost, "/login", "/login", `{"login":"buddy","password":"pw"}`, AuthLogin(svc, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(accessTokenHeader) != "access" {
		t.Fatalf("missing access token header")
	}
	if svc.loginReq.Login != "buddy" {
		t.Fatalf("unexpected login %q", svc.loginReq.Login)
	}
}

func TestAuthLoginValidatesBody(t *testing.T) {
	rec := serve(t, nil, http.MethodPost, "/login", "/login", `{"login":""}`, AuthLogin(&fakeAuthService{}, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	rec := serve(t, nil, http.MethodPost, "/login", "/login", `{"login":"a","password":"b"}`, AuthLogin(svc, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRegisterSignsIn(t *testing.T) {
	svc := &fakeAuthService{}
	reg := &fakeRegisterService{}
	body := `{"username":"buddy","email":"b@example.com","password":"Secret123!","first_name":"B","last_name":"D"}`
	rec := serve(t, nil, http.MethodPost, "/register", "/register", body, AuthRegister(reg, svc, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.loginReq.Login != "buddy" || svc.loginReq.Password != "Secret123!" {
		t.Fatalf("expected login with new credentials, got %+v", svc.loginReq)
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	reg := &fakeRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "username already taken")}
	body := `{"username":"buddy","email":"b@example.com","password":"Secret123!","first_name":"B","last_name":"D"}`
	rec := serve(t, nil, http.MethodPost, "/register", "/register", body, AuthRegister(reg, &fakeAuthService{}, nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthRefreshUsesHeaderToken(t *testing.T) {
	svc := &fakeAuthService{}
	handler := AuthRefresh(svc, nil)

	rec := serve(t, nil, http.MethodPost, "/refresh", "/refresh", `{"refresh_token":"r"}`, handler)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without access token, got %d", rec.Code)
	}

	rec = serve(t, nil, http.MethodPost, "/refresh", "/refresh", `{"refresh_token":"r"}`, func(w http.ResponseWriter, r *http.Request) {
		r.Header.Set("Authorization", "Bearer expired")
		handler(w, r)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.refreshReq.AccessToken != "expired" || svc.refreshReq.RefreshToken != "r" {
		t.Fatalf("unexpected refresh request %+v", svc.refreshReq)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &fakeAuthService{}
	handler := AuthLogout(svc, nil)
	rec := serve(t, nil, http.MethodPost, "/logout", "/logout", "", func(w http.ResponseWriter, r *http.Request) {
		r.Header.Set("Authorization", "Bearer tok")
		handler(w, r)
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.loggedOut != "tok" {
		t.Fatalf("expected token revoked, got %q", svc.loggedOut)
	}
}
