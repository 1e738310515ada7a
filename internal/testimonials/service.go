package testimonials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/appointments"
	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/internal/veterinarians"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/payloads"
)

const entityName = "testimonial"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type ServiceParams struct {
	Repo         *Repository
	Appointments *appointments.Repository
	Tx           txRunner
	Outbox       outboxEmitter
	Clock        func() time.Time
}

// Service moderates customer feedback and the reviews left on appointments.
type Service struct {
	repo         *Repository
	appointments *appointments.Repository
	tx           txRunner
	outbox       outboxEmitter
	now          func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("testimonial repository required")
	case params.Appointments == nil:
		return nil, fmt.Errorf("appointment repository required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox emitter required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:         params.Repo,
		appointments: params.Appointments,
		tx:           params.Tx,
		outbox:       params.Outbox,
		now:          now,
	}, nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]*TestimonialDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list testimonials")
	}
	return fromModels(rows), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TestimonialDTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(t), nil
}

// Create stores a testimonial pending moderation. Approval and featuring are
// never taken from the caller.
func (s *Service) Create(ctx context.Context, userID *uuid.UUID, in TestimonialInput) (*TestimonialDTO, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	t := &models.Testimonial{UserID: userID}
	in.applyTo(t)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, t); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create testimonial")
		}
		return s.emitSubmitted(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(t), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in TestimonialInput) (*TestimonialDTO, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	in.applyTo(t)
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update testimonial")
	}
	return FromModel(t), nil
}

// Approve publishes a testimonial. Approving one linked to an appointment
// refreshes the veterinarian's rating.
func (s *Service) Approve(ctx context.Context, id, approverID uuid.UUID) (*TestimonialDTO, error) {
	var approved *models.Testimonial
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		t, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return repo.Translate(err, entityName)
		}
		at := s.now().UTC()
		t.IsApproved = true
		t.ApprovedBy = &approverID
		t.ApprovedAt = &at
		if err := txRepo.Save(ctx, t); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve testimonial")
		}
		if err := refreshVetRating(ctx, tx, t); err != nil {
			return err
		}
		approved = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(approved), nil
}

func (s *Service) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*TestimonialDTO, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	t.IsFeatured = featured
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "feature testimonial")
	}
	return FromModel(t), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		t, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return repo.Translate(err, entityName)
		}
		if _, err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete testimonial")
		}
		if t.IsApproved {
			return refreshVetRating(ctx, tx, t)
		}
		return nil
	})
}

// AddReview records the post-visit ratings on an appointment and files an
// unapproved testimonial built from it. An appointment is reviewed once.
func (s *Service) AddReview(ctx context.Context, appointmentID uuid.UUID, in ReviewInput) (*appointments.AppointmentDTO, error) {
	if !validRating(in.AppointmentRating) || !validRating(in.DoctorRating) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ratings must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment is required")
	}

	var reviewed *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		apptRepo := s.appointments.WithTx(tx)
		appt, err := apptRepo.FindByID(ctx, appointmentID)
		if err != nil {
			return repo.Translate(err, "appointment")
		}
		if appt.Status == enums.AppointmentStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled appointments cannot be reviewed")
		}
		if appt.Reviewed() {
			return pkgerrors.New(pkgerrors.CodeConflict, "appointment already reviewed")
		}

		at := s.now().UTC()
		appt.AppointmentRating = &in.AppointmentRating
		appt.DoctorRating = &in.DoctorRating
		appt.ReviewComment = &comment
		appt.ReviewCreatedAt = &at
		if err := apptRepo.Save(ctx, appt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save review")
		}

		email := appt.ClientEmail
		t := &models.Testimonial{
			UserID:        appt.UserID,
			AppointmentID: &appt.ID,
			CustomerName:  appt.ClientName,
			CustomerEmail: &email,
			Rating:        in.DoctorRating,
			Content:       comment,
			PetName:       &appt.PetName,
			PetType:       &appt.PetType,
			ServiceType:   &appt.ReasonForVisit,
		}
		if err := s.repo.WithTx(tx).Create(ctx, t); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create testimonial")
		}
		if err := s.emitSubmitted(ctx, tx, t); err != nil {
			return err
		}
		reviewed = appt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointments.FromModel(reviewed), nil
}

// ListReviewedByVeterinarian returns the vet's appointments carrying a review.
func (s *Service) ListReviewedByVeterinarian(ctx context.Context, vetID uuid.UUID) ([]*appointments.AppointmentDTO, error) {
	rows, err := s.appointments.ListReviewedByVeterinarian(ctx, vetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return appointments.FromModels(rows), nil
}

func (s *Service) emitSubmitted(ctx context.Context, tx *gorm.DB, t *models.Testimonial) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventTestimonialSubmitted,
		AggregateType: enums.AggregateTestimonial,
		AggregateID:   t.ID,
		Data: payloads.TestimonialSubmittedEvent{
			TestimonialID: t.ID,
			UserID:        t.UserID,
			Rating:        t.Rating,
		},
	})
}

// refreshVetRating recomputes rating and total reviews for the veterinarian
// behind t's appointment from every approved doctor rating.
func refreshVetRating(ctx context.Context, tx *gorm.DB, t *models.Testimonial) error {
	if t.AppointmentID == nil {
		return nil
	}
	appt, err := appointments.NewRepository(tx).FindByID(ctx, *t.AppointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	ratings, err := NewRepository(tx).ApprovedDoctorRatings(ctx, appt.VeterinarianID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "collect ratings")
	}
	average := decimal.Zero
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		average = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(ratings)))).Round(2)
	}
	if err := veterinarians.NewRepository(tx).UpdateRating(ctx, appt.VeterinarianID, average, len(ratings)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update veterinarian rating")
	}
	return nil
}

func validateInput(in TestimonialInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer_name is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if !validRating(in.Rating) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}

func validRating(v int) bool {
	return v >= 1 && v <= 5
}
