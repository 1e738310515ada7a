package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/api/middleware"
	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/testimonials"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

type TestimonialService interface {
	List(ctx context.Context, filters testimonials.ListFilters) ([]*testimonials.TestimonialDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*testimonials.TestimonialDTO, error)
	Create(ctx context.Context, userID *uuid.UUID, in testimonials.TestimonialInput) (*testimonials.TestimonialDTO, error)
	Update(ctx context.Context, id uuid.UUID, in testimonials.TestimonialInput) (*testimonials.TestimonialDTO, error)
	Approve(ctx context.Context, id, approverID uuid.UUID) (*testimonials.TestimonialDTO, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*testimonials.TestimonialDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type featureRequest struct {
	Featured *bool `json:"featured" validate:"required"`
}

func isAdmin(r *http.Request) bool {
	return middleware.RoleFromContext(r.Context()) == enums.UserRoleAdmin
}

// TestimonialList shows only approved entries to anyone but admins.
func TestimonialList(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "testimonial")
			return
		}
		var (
			filters testimonials.ListFilters
			err     error
		)
		if filters.Approved, err = validators.ParseOptionalBool(r, "approved"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.Featured, err = validators.ParseOptionalBool(r, "featured"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !isAdmin(r) {
			approved := true
			filters.Approved = &approved
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func TestimonialDetail(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "testimonial")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		t, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !t.IsApproved && !isAdmin(r) && !canAccess(r, t.UserID) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found"))
			return
		}
		responses.WriteSuccess(w, t)
	}
}

func TestimonialCreate(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "testimonial")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var body testimonials.TestimonialInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		t, err := svc.Create(r.Context(), &userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, t)
	}
}

func AdminUpdateTestimonial(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "testimonial")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body testimonials.TestimonialInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		t, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, t)
	}
}

// AdminApproveTestimonial records the calling admin as approver.
func AdminApproveTestimonial(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "testimonial")
			return
		}
		adminID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		t, err := svc.Approve(r.Context(), id, adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, t)
	}
}

func AdminFeatureTestimonial(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "testimonial")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body featureRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		t, err := svc.SetFeatured(r.Context(), id, *body.Featured)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, t)
	}
}

func AdminDeleteTestimonial(svc TestimonialService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "testimonial")
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
