package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/appointments"
	"github.com/petcareclinic/petcare-backend/internal/veterinarians"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

type VeterinarianService interface {
	List(ctx context.Context, filters veterinarians.ListFilters) ([]*veterinarians.VeterinarianDTO, error)
	Specializations(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id uuid.UUID) (*veterinarians.VeterinarianDTO, error)
	GetByEmail(ctx context.Context, email string) (*veterinarians.VeterinarianDTO, error)
	GetByLicense(ctx context.Context, license string) (*veterinarians.VeterinarianDTO, error)
	Create(ctx context.Context, in veterinarians.VeterinarianInput) (*veterinarians.VeterinarianDTO, error)
	Update(ctx context.Context, id uuid.UUID, in veterinarians.VeterinarianInput) (*veterinarians.VeterinarianDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewLister returns the reviewed appointments of one veterinarian.
type ReviewLister interface {
	ListReviewedByVeterinarian(ctx context.Context, vetID uuid.UUID) ([]*appointments.AppointmentDTO, error)
}

func VeterinarianList(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "veterinarian")
			return
		}

		q := r.URL.Query()
		filters := veterinarians.ListFilters{
			Query:          strings.TrimSpace(q.Get("q")),
			Specialization: strings.TrimSpace(q.Get("specialization")),
		}
		available, err := validators.ParseOptionalBool(r, "available")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.AvailableOnly = available != nil && *available
		if filters.MinExperience, err = validators.ParseOptionalInt(r, "minExperience", 0); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.MinRating, err = validators.ParseOptionalDecimal(r, "minRating"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func VeterinarianSpecializations(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "veterinarian")
			return
		}
		list, err := svc.Specializations(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func VeterinarianDetail(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "veterinarian")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vet, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vet)
	}
}

func VeterinarianByEmail(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return vetLookup(logg, "email", svc == nil, func(ctx context.Context, v string) (*veterinarians.VeterinarianDTO, error) {
		return svc.GetByEmail(ctx, v)
	})
}

func VeterinarianByLicense(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return vetLookup(logg, "license", svc == nil, func(ctx context.Context, v string) (*veterinarians.VeterinarianDTO, error) {
		return svc.GetByLicense(ctx, v)
	})
}

func vetLookup(logg *logger.Logger, param string, missing bool, find func(context.Context, string) (*veterinarians.VeterinarianDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if missing {
			serviceUnavailable(w, r, logg, "veterinarian")
			return
		}
		value, err := validators.PathString(r, param)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vet, err := find(r.Context(), value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vet)
	}
}

// VeterinarianReviews lists the reviewed appointments for one veterinarian.
func VeterinarianReviews(svc ReviewLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "review")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListReviewedByVeterinarian(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminCreateVeterinarian(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "veterinarian")
			return
		}
		var body veterinarians.VeterinarianInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vet, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vet)
	}
}

func AdminUpdateVeterinarian(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "veterinarian")
			return
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body veterinarians.VeterinarianInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vet, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vet)
	}
}

func AdminDeleteVeterinarian(svc VeterinarianService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "veterinarian")
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
