package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/api/middleware"
	"github.com/petcareclinic/petcare-backend/api/responses"
	"github.com/petcareclinic/petcare-backend/api/validators"
	"github.com/petcareclinic/petcare-backend/internal/appointments"
	"github.com/petcareclinic/petcare-backend/internal/testimonials"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

type AppointmentService interface {
	IsSlotAvailable(ctx context.Context, vetID uuid.UUID, date, clock string) (bool, error)
	Create(ctx context.Context, in appointments.AppointmentInput) (*appointments.AppointmentDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*appointments.AppointmentDTO, error)
	Update(ctx context.Context, id uuid.UUID, in appointments.AppointmentInput) (*appointments.AppointmentDTO, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus, reason string) (*appointments.AppointmentDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters appointments.ListFilters) ([]*appointments.AppointmentDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*appointments.AppointmentDTO, error)
}

// ReviewWriter attaches a post-visit review to an appointment.
type ReviewWriter interface {
	AddReview(ctx context.Context, appointmentID uuid.UUID, in testimonials.ReviewInput) (*appointments.AppointmentDTO, error)
}

type appointmentStatusRequest struct {
	Status enums.AppointmentStatus `json:"status" validate:"required"`
	Reason string                  `json:"reason,omitempty" validate:"max=500"`
}

func AppointmentAvailability(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		q := r.URL.Query()
		vetID, err := uuid.Parse(strings.TrimSpace(q.Get("veterinarianId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid veterinarianId").WithDetails(map[string]any{"field": "veterinarianId"}))
			return
		}
		available, err := svc.IsSlotAvailable(r.Context(), vetID, strings.TrimSpace(q.Get("date")), strings.TrimSpace(q.Get("time")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"available": available})
	}
}

// AppointmentCreate books on behalf of the caller. Staff may book for
// another account by passing user_id.
func AppointmentCreate(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		var body appointments.AppointmentInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !middleware.IsStaff(r.Context()) {
			body.Status = nil
			body.UserID = &userID
		} else if body.UserID == nil {
			body.UserID = &userID
		}
		appt, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, appt)
	}
}

func AppointmentMine(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		userID, ok := requireUser(w, r, logg)
		if !ok {
			return
		}
		list, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AppointmentDetail(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		appt, ok := loadAppointment(w, r, svc, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, appt)
	}
}

// AppointmentUpdate lets the owner reschedule or edit details. Status is
// only taken from staff.
func AppointmentUpdate(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		current, ok := loadAppointment(w, r, svc, logg)
		if !ok {
			return
		}
		var body appointments.AppointmentInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !middleware.IsStaff(r.Context()) {
			body.Status = nil
			body.UserID = current.UserID
		} else if body.UserID == nil {
			body.UserID = current.UserID
		}
		appt, err := svc.Update(r.Context(), current.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, appt)
	}
}

// AppointmentChangeStatus is open to staff for any status and to the owner
// for cancellation only.
func AppointmentChangeStatus(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		current, ok := loadAppointment(w, r, svc, logg)
		if !ok {
			return
		}
		var body appointmentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseAppointmentStatus(string(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid appointment status"))
			return
		}
		if !middleware.IsStaff(r.Context()) && status != enums.AppointmentStatusCancelled {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only staff may set this status"))
			return
		}
		appt, err := svc.ChangeStatus(r.Context(), current.ID, status, validators.SanitizeString(body.Reason, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, appt)
	}
}

func AppointmentDelete(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		current, ok := loadAppointment(w, r, svc, logg)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), current.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AppointmentReview records the owner's post-visit ratings.
func AppointmentReview(svc AppointmentService, reviews ReviewWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || reviews == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		current, ok := loadAppointment(w, r, svc, logg)
		if !ok {
			return
		}
		var body testimonials.ReviewInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		appt, err := reviews.AddReview(r.Context(), current.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, appt)
	}
}

// StaffListAppointments serves the clinic calendar views.
func StaffListAppointments(svc AppointmentService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "appointment")
			return
		}
		var (
			filters appointments.ListFilters
			err     error
		)
		filters.ClientEmail = strings.TrimSpace(r.URL.Query().Get("email"))
		if filters.Date, err = validators.ParseOptionalDate(r, "date"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.From, err = validators.ParseOptionalDate(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.To, err = validators.ParseOptionalDate(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.VeterinarianID, err = validators.ParseOptionalUUID(r, "veterinarianId"); err != nil {
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

func loadAppointment(w http.ResponseWriter, r *http.Request, svc AppointmentService, logg *logger.Logger) (*appointments.AppointmentDTO, bool) {
	id, err := validators.PathUUID(r, "id")
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	appt, err := svc.Get(r.Context(), id)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	if !canAccess(r, appt.UserID) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found"))
		return nil, false
	}
	return appt, true
}
