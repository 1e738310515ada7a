package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// Appointment occupies one (veterinarian, date, time) slot while not cancelled.
// AppointmentDate is stored at UTC midnight; AppointmentTime is "HH:MM".
type Appointment struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VeterinarianID    uuid.UUID               `gorm:"column:veterinarian_id;type:uuid;not null"`
	UserID            *uuid.UUID              `gorm:"column:user_id;type:uuid"`
	ClientName        string                  `gorm:"column:client_name;not null"`
	ClientEmail       string                  `gorm:"column:client_email;not null"`
	ClientPhone       *string                 `gorm:"column:client_phone"`
	PetName           string                  `gorm:"column:pet_name;not null"`
	PetType           string                  `gorm:"column:pet_type;not null"`
	PetAge            *string                 `gorm:"column:pet_age"`
	AppointmentDate   time.Time               `gorm:"column:appointment_date;type:date;not null"`
	AppointmentTime   string                  `gorm:"column:appointment_time;not null"`
	ReasonForVisit    string                  `gorm:"column:reason_for_visit;not null"`
	AdditionalNotes   *string                 `gorm:"column:additional_notes"`
	Status            enums.AppointmentStatus `gorm:"column:status;type:appointment_status;not null"`
	AppointmentRating *int                    `gorm:"column:appointment_rating"`
	DoctorRating      *int                    `gorm:"column:doctor_rating"`
	ReviewComment     *string                 `gorm:"column:review_comment"`
	ReviewCreatedAt   *time.Time              `gorm:"column:review_created_at"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// Reviewed reports whether the post-visit review has been recorded.
func (a *Appointment) Reviewed() bool {
	return a.ReviewCreatedAt != nil
}
