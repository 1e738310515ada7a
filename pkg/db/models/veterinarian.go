package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Veterinarian is a bookable provider in the clinic directory.
type Veterinarian struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FullName          string          `gorm:"column:full_name;not null"`
	Email             string          `gorm:"column:email;not null;uniqueIndex"`
	PhoneNumber       *string         `gorm:"column:phone_number"`
	LicenseNumber     string          `gorm:"column:license_number;not null;uniqueIndex"`
	Specialization    string          `gorm:"column:specialization;not null"`
	YearsOfExperience int             `gorm:"column:years_of_experience;not null"`
	Education         *string         `gorm:"column:education"`
	Bio               *string         `gorm:"column:bio"`
	ConsultationFee   decimal.Decimal `gorm:"column:consultation_fee;type:numeric(10,2);not null"`
	AvailableFrom     string          `gorm:"column:available_from;not null"`
	AvailableTo       string          `gorm:"column:available_to;not null"`
	WorkingDays       string          `gorm:"column:working_days;not null"`
	IsAvailable       bool            `gorm:"column:is_available;not null"`
	Rating            decimal.Decimal `gorm:"column:rating;type:numeric(3,2);not null"`
	TotalReviews      int             `gorm:"column:total_reviews;not null"`
	ImageURL          *string         `gorm:"column:image_url"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *Veterinarian) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
