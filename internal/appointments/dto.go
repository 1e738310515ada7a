package appointments

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for appointment times.
	TimeLayout = "15:04"
)

type AppointmentDTO struct {
	ID                uuid.UUID               `json:"id"`
	VeterinarianID    uuid.UUID               `json:"veterinarian_id"`
	UserID            *uuid.UUID              `json:"user_id,omitempty"`
	ClientName        string                  `json:"client_name"`
	ClientEmail       string                  `json:"client_email"`
	ClientPhone       *string                 `json:"client_phone,omitempty"`
	PetName           string                  `json:"pet_name"`
	PetType           string                  `json:"pet_type"`
	PetAge            *string                 `json:"pet_age,omitempty"`
	AppointmentDate   string                  `json:"appointment_date"`
	AppointmentTime   string                  `json:"appointment_time"`
	ReasonForVisit    string                  `json:"reason_for_visit"`
	AdditionalNotes   *string                 `json:"additional_notes,omitempty"`
	Status            enums.AppointmentStatus `json:"status"`
	AppointmentRating *int                    `json:"appointment_rating,omitempty"`
	DoctorRating      *int                    `json:"doctor_rating,omitempty"`
	ReviewComment     *string                 `json:"review_comment,omitempty"`
	ReviewCreatedAt   *time.Time              `json:"review_created_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// AppointmentInput is the create and full-update payload. Date is YYYY-MM-DD
// and Time is HH:MM.
type AppointmentInput struct {
	VeterinarianID  uuid.UUID                `json:"veterinarian_id" validate:"required"`
	UserID          *uuid.UUID               `json:"user_id,omitempty"`
	ClientName      string                   `json:"client_name" validate:"required,max=150"`
	ClientEmail     string                   `json:"client_email" validate:"required,email"`
	ClientPhone     *string                  `json:"client_phone,omitempty" validate:"omitempty,max=30"`
	PetName         string                   `json:"pet_name" validate:"required,max=100"`
	PetType         string                   `json:"pet_type" validate:"required,max=50"`
	PetAge          *string                  `json:"pet_age,omitempty"`
	AppointmentDate string                   `json:"appointment_date" validate:"required"`
	AppointmentTime string                   `json:"appointment_time" validate:"required,hhmm"`
	ReasonForVisit  string                   `json:"reason_for_visit" validate:"required"`
	AdditionalNotes *string                  `json:"additional_notes,omitempty"`
	Status          *enums.AppointmentStatus `json:"status,omitempty"`
}

// Slot identifies one bookable (veterinarian, date, time) triple.
type Slot struct {
	VeterinarianID uuid.UUID
	Date           time.Time
	Time           string
}

// ParseSlot validates and normalizes a raw date and time.
func ParseSlot(vetID uuid.UUID, date, clock string) (Slot, error) {
	day, err := ParseDate(date)
	if err != nil {
		return Slot{}, err
	}
	normalized, err := ParseClock(clock)
	if err != nil {
		return Slot{}, err
	}
	return Slot{VeterinarianID: vetID, Date: day, Time: normalized}, nil
}

// ParseDate returns the date at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
}

// ParseClock accepts HH:MM or HH:MM:SS and returns HH:MM.
func ParseClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if len(value) == len("15:04:05") {
		t, err := time.Parse("15:04:05", value)
		if err != nil {
			return "", err
		}
		return t.Format(TimeLayout), nil
	}
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return "", err
	}
	return t.Format(TimeLayout), nil
}

func FromModel(a *models.Appointment) *AppointmentDTO {
	if a == nil {
		return nil
	}
	return &AppointmentDTO{
		ID:                a.ID,
		VeterinarianID:    a.VeterinarianID,
		UserID:            a.UserID,
		ClientName:        a.ClientName,
		ClientEmail:       a.ClientEmail,
		ClientPhone:       a.ClientPhone,
		PetName:           a.PetName,
		PetType:           a.PetType,
		PetAge:            a.PetAge,
		AppointmentDate:   a.AppointmentDate.UTC().Format(DateLayout),
		AppointmentTime:   a.AppointmentTime,
		ReasonForVisit:    a.ReasonForVisit,
		AdditionalNotes:   a.AdditionalNotes,
		Status:            a.Status,
		AppointmentRating: a.AppointmentRating,
		DoctorRating:      a.DoctorRating,
		ReviewComment:     a.ReviewComment,
		ReviewCreatedAt:   a.ReviewCreatedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func FromModels(rows []models.Appointment) []*AppointmentDTO {
	out := make([]*AppointmentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// ListFilters selects one staff listing. The first set filter wins in the
// order VeterinarianID, ClientEmail, Date, From/To.
type ListFilters struct {
	VeterinarianID *uuid.UUID
	ClientEmail    string
	Date           *time.Time
	From           *time.Time
	To             *time.Time
}
