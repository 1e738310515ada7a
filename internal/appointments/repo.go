package appointments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

const newestFirst = "appointment_date desc, appointment_time desc"
const oldestFirst = "appointment_date asc, appointment_time asc"

// Repository exposes appointment persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *Repository) Save(ctx context.Context, appt *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.db.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// SlotTaken reports whether a non-cancelled appointment other than excludeID
// occupies the slot.
func (r *Repository) SlotTaken(ctx context.Context, slot Slot, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("veterinarian_id = ? AND appointment_date = ? AND appointment_time = ? AND status <> ?",
			slot.VeterinarianID, slot.Date, slot.Time, enums.AppointmentStatusCancelled)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Appointment, error) {
	return r.find(ctx, newestFirst, nil)
}

func (r *Repository) ListByVeterinarian(ctx context.Context, vetID uuid.UUID) ([]models.Appointment, error) {
	return r.find(ctx, newestFirst, func(q *gorm.DB) *gorm.DB {
		return q.Where("veterinarian_id = ?", vetID)
	})
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	return r.find(ctx, newestFirst, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (r *Repository) ListByClientEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	return r.find(ctx, newestFirst, func(q *gorm.DB) *gorm.DB {
		return q.Where("lower(client_email) = ?", strings.ToLower(strings.TrimSpace(email)))
	})
}

func (r *Repository) ListByDate(ctx context.Context, day time.Time) ([]models.Appointment, error) {
	return r.find(ctx, oldestFirst, func(q *gorm.DB) *gorm.DB {
		return q.Where("appointment_date = ?", day)
	})
}

// ListByDateRange includes both ends.
func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	return r.find(ctx, oldestFirst, func(q *gorm.DB) *gorm.DB {
		return q.Where("appointment_date >= ? AND appointment_date <= ?", from, to)
	})
}

// ListReviewedByVeterinarian returns the vet's appointments that carry a review.
func (r *Repository) ListReviewedByVeterinarian(ctx context.Context, vetID uuid.UUID) ([]models.Appointment, error) {
	return r.find(ctx, newestFirst, func(q *gorm.DB) *gorm.DB {
		return q.Where("veterinarian_id = ? AND appointment_rating IS NOT NULL", vetID)
	})
}

func (r *Repository) find(ctx context.Context, order string, scope func(*gorm.DB) *gorm.DB) ([]models.Appointment, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	if scope != nil {
		query = scope(query)
	}
	var rows []models.Appointment
	err := query.Order(order).Find(&rows).Error
	return rows, err
}
