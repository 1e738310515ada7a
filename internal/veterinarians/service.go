package veterinarians

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

const entityName = "veterinarian"

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type vetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Veterinarian, error)
	FindByEmail(ctx context.Context, email string) (*models.Veterinarian, error)
	FindByLicense(ctx context.Context, license string) (*models.Veterinarian, error)
	List(ctx context.Context) ([]models.Veterinarian, error)
	Search(ctx context.Context, query string) ([]models.Veterinarian, error)
	ListBySpecialization(ctx context.Context, specialization string) ([]models.Veterinarian, error)
	ListAvailable(ctx context.Context) ([]models.Veterinarian, error)
	ListSpecializations(ctx context.Context) ([]string, error)
	ListByMinExperience(ctx context.Context, years int) ([]models.Veterinarian, error)
	ListByMinRating(ctx context.Context, minRating decimal.Decimal) ([]models.Veterinarian, error)
	Create(ctx context.Context, vet *models.Veterinarian) error
	Save(ctx context.Context, vet *models.Veterinarian) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service manages the provider directory.
type Service struct {
	repo vetRepository
}

func NewService(repo vetRepository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("veterinarian repository required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]*VeterinarianDTO, error) {
	var (
		rows []models.Veterinarian
		err  error
	)
	switch {
	case strings.TrimSpace(filters.Query) != "":
		rows, err = s.repo.Search(ctx, filters.Query)
	case strings.TrimSpace(filters.Specialization) != "":
		rows, err = s.repo.ListBySpecialization(ctx, filters.Specialization)
	case filters.AvailableOnly:
		rows, err = s.repo.ListAvailable(ctx)
	case filters.MinExperience != nil:
		rows, err = s.repo.ListByMinExperience(ctx, *filters.MinExperience)
	case filters.MinRating != nil:
		rows, err = s.repo.ListByMinRating(ctx, *filters.MinRating)
	default:
		rows, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list veterinarians")
	}
	return fromModels(rows), nil
}

func (s *Service) Specializations(ctx context.Context) ([]string, error) {
	out, err := s.repo.ListSpecializations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list specializations")
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*VeterinarianDTO, error) {
	vet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(vet), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*VeterinarianDTO, error) {
	vet, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(vet), nil
}

func (s *Service) GetByLicense(ctx context.Context, license string) (*VeterinarianDTO, error) {
	vet, err := s.repo.FindByLicense(ctx, license)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(vet), nil
}

func (s *Service) Create(ctx context.Context, in VeterinarianInput) (*VeterinarianDTO, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	vet := &models.Veterinarian{IsAvailable: true, Rating: decimal.Zero}
	in.applyTo(vet)
	if err := validateHours(vet); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, vet); err != nil {
		return nil, mapWriteError(err, "create veterinarian")
	}
	return FromModel(vet), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in VeterinarianInput) (*VeterinarianDTO, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	vet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	in.applyTo(vet)
	if err := validateHours(vet); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, vet); err != nil {
		return nil, mapWriteError(err, "update veterinarian")
	}
	return FromModel(vet), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete veterinarian")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "veterinarian not found")
	}
	return nil
}

func validateInput(in VeterinarianInput) error {
	switch {
	case strings.TrimSpace(in.FullName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	case strings.TrimSpace(in.Email) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	case strings.TrimSpace(in.LicenseNumber) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "license number is required")
	case strings.TrimSpace(in.Specialization) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "specialization is required")
	case in.ConsultationFee.IsNegative():
		return pkgerrors.New(pkgerrors.CodeValidation, "consultation fee cannot be negative")
	case in.YearsOfExperience != nil && *in.YearsOfExperience < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "years of experience cannot be negative")
	}
	return nil
}

func validateHours(vet *models.Veterinarian) error {
	if !clockPattern.MatchString(vet.AvailableFrom) || !clockPattern.MatchString(vet.AvailableTo) {
		return pkgerrors.New(pkgerrors.CodeValidation, "availability must use HH:MM")
	}
	if vet.AvailableFrom >= vet.AvailableTo {
		return pkgerrors.New(pkgerrors.CodeValidation, "available_from must be before available_to")
	}
	return nil
}

func mapWriteError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email or license number already registered")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
