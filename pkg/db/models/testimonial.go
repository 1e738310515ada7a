package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Testimonial is customer feedback awaiting or past moderation.
type Testimonial struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           *uuid.UUID `gorm:"column:user_id;type:uuid"`
	AppointmentID    *uuid.UUID `gorm:"column:appointment_id;type:uuid"`
	CustomerName     string     `gorm:"column:customer_name;not null"`
	CustomerEmail    *string    `gorm:"column:customer_email"`
	CustomerImageURL *string    `gorm:"column:customer_image_url"`
	Rating           int        `gorm:"column:rating;not null"`
	Title            *string    `gorm:"column:title"`
	Content          string     `gorm:"column:content;not null"`
	PetName          *string    `gorm:"column:pet_name"`
	PetType          *string    `gorm:"column:pet_type"`
	ServiceType      *string    `gorm:"column:service_type"`
	IsApproved       bool       `gorm:"column:is_approved;not null"`
	IsFeatured       bool       `gorm:"column:is_featured;not null"`
	ApprovedBy       *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt       *time.Time `gorm:"column:approved_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (t *Testimonial) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
