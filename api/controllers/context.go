package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/api/middleware"
	"github.com/petcareclinic/petcare-backend/api/responses"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

// requireUser returns the authenticated caller or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return uuid.Nil, false
	}
	return id, true
}

// canAccess reports whether the caller owns a resource or is clinic staff.
// Foreign resources are reported as missing rather than forbidden.
func canAccess(r *http.Request, owner *uuid.UUID) bool {
	if middleware.IsStaff(r.Context()) {
		return true
	}
	caller, ok := middleware.UserUUIDFromContext(r.Context())
	return ok && owner != nil && *owner == caller
}

func serviceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
