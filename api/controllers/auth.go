package controllers

import (
	"net/http"

	"github.com/petcareclinic/petcare-backend/api/middleware"
	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/auth"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

const accessTokenHeader = "X-Access-Token"

// AuthLogin accepts a username or email with the password.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthRegister creates the account and signs the new user in.
func AuthRegister(reg auth.RegisterService, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil || svc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := reg.Register(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginRequest{Login: body.Username, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthRefresh rotates the session. The expired access token travels in the
// Authorization header and the refresh token in the body.
func AuthRefresh(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}

		accessToken := middleware.BearerToken(r)
		if accessToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.AccessToken = accessToken

		result, err := svc.Refresh(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}

		accessToken := middleware.BearerToken(r)
		if accessToken == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.Logout(r.Context(), accessToken); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
