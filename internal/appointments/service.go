package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/payloads"
)

const (
	entityName       = "appointment"
	slotTakenMessage = "time slot is not available"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type vetLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Veterinarian, error)
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams bundles the dependencies required by the scheduling service.
type ServiceParams struct {
	Repo   *Repository
	Vets   vetLookup
	Tx     txRunner
	Outbox outboxEmitter
	Logger *logger.Logger
}

// Service books and manages appointments. A slot is held by at most one
// appointment that is not CANCELLED.
type Service struct {
	repo   *Repository
	vets   vetLookup
	tx     txRunner
	outbox outboxEmitter
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("appointment repository required")
	case params.Vets == nil:
		return nil, fmt.Errorf("veterinarian lookup required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &Service{
		repo:   params.Repo,
		vets:   params.Vets,
		tx:     params.Tx,
		outbox: params.Outbox,
		logg:   params.Logger,
	}, nil
}

// IsSlotAvailable is true iff no non-cancelled appointment holds the slot.
func (s *Service) IsSlotAvailable(ctx context.Context, vetID uuid.UUID, date, clock string) (bool, error) {
	slot, err := ParseSlot(vetID, date, clock)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date or time")
	}
	taken, err := s.repo.SlotTaken(ctx, slot, nil)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slot")
	}
	return !taken, nil
}

func (s *Service) Create(ctx context.Context, in AppointmentInput) (*AppointmentDTO, error) {
	appt := &models.Appointment{Status: enums.AppointmentStatusScheduled}
	if err := applyInput(appt, in); err != nil {
		return nil, err
	}
	if err := s.ensureVet(ctx, appt.VeterinarianID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := ensureSlotFree(ctx, txRepo, appt, nil); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, appt); err != nil {
			return mapWriteError(err, "create appointment")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAppointmentBooked,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appt.ID,
			Data: payloads.AppointmentBookedEvent{
				AppointmentID:   appt.ID,
				UserID:          appt.UserID,
				VeterinarianID:  appt.VeterinarianID,
				AppointmentDate: appt.AppointmentDate.Format(DateLayout),
				AppointmentTime: appt.AppointmentTime,
				OwnerEmail:      appt.ClientEmail,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"appointment_id":  appt.ID.String(),
			"veterinarian_id": appt.VeterinarianID.String(),
		})
		s.logg.Info(logCtx, "appointment booked")
	}
	return FromModel(appt), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*AppointmentDTO, error) {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(appt), nil
}

// Update replaces every editable field. Moving into a held slot is a Conflict.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in AppointmentInput) (*AppointmentDTO, error) {
	var updated *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		appt, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return repo.Translate(err, entityName)
		}
		previous := appt.Status
		if err := applyInput(appt, in); err != nil {
			return err
		}
		if err := s.ensureVet(ctx, appt.VeterinarianID); err != nil {
			return err
		}
		if appt.Status != enums.AppointmentStatusCancelled {
			if err := ensureSlotFree(ctx, txRepo, appt, &appt.ID); err != nil {
				return err
			}
		}
		if err := txRepo.Save(ctx, appt); err != nil {
			return mapWriteError(err, "update appointment")
		}
		if err := s.emitCancelled(ctx, tx, appt, previous, ""); err != nil {
			return err
		}
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// ChangeStatus moves an appointment to status. Reactivating a cancelled
// appointment re-checks the slot.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus, reason string) (*AppointmentDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid appointment status")
	}
	var updated *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		appt, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return repo.Translate(err, entityName)
		}
		previous := appt.Status
		if previous == status {
			updated = appt
			return nil
		}
		appt.Status = status
		if previous == enums.AppointmentStatusCancelled {
			if err := ensureSlotFree(ctx, txRepo, appt, &appt.ID); err != nil {
				return err
			}
		}
		if err := txRepo.Save(ctx, appt); err != nil {
			return mapWriteError(err, "update appointment status")
		}
		if err := s.emitCancelled(ctx, tx, appt, previous, reason); err != nil {
			return err
		}
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete appointment")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}
	return nil
}

// List returns one staff view chosen by filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]*AppointmentDTO, error) {
	var (
		rows []models.Appointment
		err  error
	)
	switch {
	case filters.VeterinarianID != nil:
		rows, err = s.repo.ListByVeterinarian(ctx, *filters.VeterinarianID)
	case strings.TrimSpace(filters.ClientEmail) != "":
		rows, err = s.repo.ListByClientEmail(ctx, filters.ClientEmail)
	case filters.Date != nil:
		rows, err = s.repo.ListByDate(ctx, *filters.Date)
	case filters.From != nil || filters.To != nil:
		if filters.From == nil || filters.To == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "both from and to are required")
		}
		if filters.To.Before(*filters.From) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to")
		}
		rows, err = s.repo.ListByDateRange(ctx, *filters.From, *filters.To)
	default:
		rows, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}
	return FromModels(rows), nil
}

// ListForUser returns the user's appointments, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*AppointmentDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}
	return FromModels(rows), nil
}

func (s *Service) ensureVet(ctx context.Context, vetID uuid.UUID) error {
	if _, err := s.vets.FindByID(ctx, vetID); err != nil {
		return repo.Translate(err, "veterinarian")
	}
	return nil
}

func (s *Service) emitCancelled(ctx context.Context, tx *gorm.DB, appt *models.Appointment, previous enums.AppointmentStatus, reason string) error {
	if appt.Status != enums.AppointmentStatusCancelled || previous == enums.AppointmentStatusCancelled {
		return nil
	}
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventAppointmentCancelled,
		AggregateType: enums.AggregateAppointment,
		AggregateID:   appt.ID,
		Data: payloads.AppointmentCancelledEvent{
			AppointmentID:  appt.ID,
			VeterinarianID: appt.VeterinarianID,
			Reason:         reason,
		},
	})
}

func ensureSlotFree(ctx context.Context, txRepo *Repository, appt *models.Appointment, excludeID *uuid.UUID) error {
	taken, err := txRepo.SlotTaken(ctx, Slot{
		VeterinarianID: appt.VeterinarianID,
		Date:           appt.AppointmentDate,
		Time:           appt.AppointmentTime,
	}, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slot")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, slotTakenMessage)
	}
	return nil
}

func applyInput(appt *models.Appointment, in AppointmentInput) error {
	if in.VeterinarianID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "veterinarian_id is required")
	}
	slot, err := ParseSlot(in.VeterinarianID, in.AppointmentDate, in.AppointmentTime)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid appointment date or time")
	}
	for field, value := range map[string]string{
		"client_name":      in.ClientName,
		"client_email":     in.ClientEmail,
		"pet_name":         in.PetName,
		"pet_type":         in.PetType,
		"reason_for_visit": in.ReasonForVisit,
	} {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid appointment status")
		}
		appt.Status = *in.Status
	}

	appt.VeterinarianID = slot.VeterinarianID
	appt.UserID = in.UserID
	appt.ClientName = strings.TrimSpace(in.ClientName)
	appt.ClientEmail = strings.ToLower(strings.TrimSpace(in.ClientEmail))
	appt.ClientPhone = in.ClientPhone
	appt.PetName = strings.TrimSpace(in.PetName)
	appt.PetType = strings.TrimSpace(in.PetType)
	appt.PetAge = in.PetAge
	appt.AppointmentDate = slot.Date
	appt.AppointmentTime = slot.Time
	appt.ReasonForVisit = strings.TrimSpace(in.ReasonForVisit)
	appt.AdditionalNotes = in.AdditionalNotes
	return nil
}

func mapWriteError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, slotTakenMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

// Today returns the current date at UTC midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
