package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/users"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

// UserService is the account surface used by the user routes.
type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in users.ProfileUpdate) (*users.UserDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, req users.ChangePasswordRequest) error
	List(ctx context.Context, params pagination.Params) (pagination.Page[*users.UserDTO], error)
	AdminCreate(ctx context.Context, req users.AdminCreateRequest) (*users.AdminCreateResult, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, req users.AdminUpdateRequest) (*users.UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func UsernameExists(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return existsHandler(logg, "username", func(ctx context.Context, v string) (bool, error) {
		return svc.UsernameExists(ctx, v)
	}, svc == nil)
}

func EmailExists(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return existsHandler(logg, "email", func(ctx context.Context, v string) (bool, error) {
		return svc.EmailExists(ctx, v)
	}, svc == nil)
}

func existsHandler(logg *logger.Logger, param string, check func(context.Context, string) (bool, error), missing bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if missing {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		value, err := validators.PathString(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		exists, err := check(r.Context(), value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"exists": exists})
	}
}

func UserMe(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		user, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func UserUpdateMe(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var body users.ProfileUpdate
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.UpdateProfile(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func UserChangePassword(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var body users.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ChangePassword(r.Context(), userID, body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminListUsers(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminCreateUser(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		var body users.AdminCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.AdminCreate(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func AdminGetUser(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func AdminUpdateUser(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body users.AdminUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.AdminUpdate(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func AdminDeleteUser(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "user")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
