package veterinarians

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
)

// Repository persists the provider directory.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Veterinarian, error) {
	var vet models.Veterinarian
	if err := r.DB(ctx).First(&vet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vet, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Veterinarian, error) {
	var vet models.Veterinarian
	if err := r.DB(ctx).Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&vet).Error; err != nil {
		return nil, err
	}
	return &vet, nil
}

func (r *Repository) FindByLicense(ctx context.Context, license string) (*models.Veterinarian, error) {
	var vet models.Veterinarian
	if err := r.DB(ctx).Where("license_number = ?", strings.TrimSpace(license)).First(&vet).Error; err != nil {
		return nil, err
	}
	return &vet, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Veterinarian, error) {
	var rows []models.Veterinarian
	err := r.DB(ctx).Order("full_name").Find(&rows).Error
	return rows, err
}

// Search matches name, specialization or bio case-insensitively.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Veterinarian, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var rows []models.Veterinarian
	err := r.DB(ctx).
		Where("LOWER(full_name) LIKE ? OR LOWER(specialization) LIKE ? OR LOWER(COALESCE(bio, '')) LIKE ?", pattern, pattern, pattern).
		Order("full_name").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListBySpecialization(ctx context.Context, specialization string) ([]models.Veterinarian, error) {
	var rows []models.Veterinarian
	err := r.DB(ctx).
		Where("LOWER(specialization) = ?", strings.ToLower(strings.TrimSpace(specialization))).
		Order("full_name").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListAvailable(ctx context.Context) ([]models.Veterinarian, error) {
	var rows []models.Veterinarian
	err := r.DB(ctx).Where("is_available = ?", true).Order("full_name").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListSpecializations(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB(ctx).
		Model(&models.Veterinarian{}).
		Distinct("specialization").
		Order("specialization").
		Pluck("specialization", &out).Error
	return out, err
}

func (r *Repository) ListByMinExperience(ctx context.Context, years int) ([]models.Veterinarian, error) {
	var rows []models.Veterinarian
	err := r.DB(ctx).
		Where("years_of_experience >= ?", years).
		Order("years_of_experience desc").
		Order("full_name").
		Find(&rows).Error
	return rows, err
}

// ListByMinRating returns vets rated at least minRating, best rated first.
func (r *Repository) ListByMinRating(ctx context.Context, minRating decimal.Decimal) ([]models.Veterinarian, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Veterinarian, 0, len(all))
	for _, v := range all {
		if v.Rating.GreaterThanOrEqual(minRating) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating.GreaterThan(out[j].Rating)
	})
	return out, nil
}

func (r *Repository) Create(ctx context.Context, vet *models.Veterinarian) error {
	return r.DB(ctx).Create(vet).Error
}

func (r *Repository) Save(ctx context.Context, vet *models.Veterinarian) error {
	return r.DB(ctx).Save(vet).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.Veterinarian{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// UpdateRating stores a recomputed aggregate rating.
func (r *Repository) UpdateRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, reviews int) error {
	return r.DB(ctx).
		Model(&models.Veterinarian{}).
		Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "total_reviews": reviews}).Error
}
