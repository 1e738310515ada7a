package testimonials

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, t *models.Testimonial) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repository) Save(ctx context.Context, t *models.Testimonial) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Testimonial{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// List returns testimonials newest first, optionally narrowed by the flags.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Testimonial, error) {
	query := r.db.WithContext(ctx).Model(&models.Testimonial{})
	if filters.Approved != nil {
		query = query.Where("is_approved = ?", *filters.Approved)
	}
	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}
	var rows []models.Testimonial
	err := query.Order("created_at desc").Find(&rows).Error
	return rows, err
}

// ApprovedDoctorRatings collects the doctor ratings behind every approved
// testimonial linked to one of the veterinarian's appointments.
func (r *Repository) ApprovedDoctorRatings(ctx context.Context, vetID uuid.UUID) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Table("testimonials AS t").
		Joins("JOIN appointments AS a ON a.id = t.appointment_id").
		Where("t.is_approved = ? AND a.veterinarian_id = ? AND a.doctor_rating IS NOT NULL", true, vetID).
		Pluck("a.doctor_rating", &ratings).Error
	return ratings, err
}
