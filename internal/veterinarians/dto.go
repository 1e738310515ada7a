package veterinarians

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
)

const (
	defaultAvailableFrom = "09:00"
	defaultAvailableTo   = "17:00"
	defaultWorkingDays   = "MON,TUE,WED,THU,FRI"
)

// VeterinarianDTO is the directory entry returned to clients.
type VeterinarianDTO struct {
	ID                uuid.UUID       `json:"id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	PhoneNumber       *string         `json:"phone_number,omitempty"`
	LicenseNumber     string          `json:"license_number"`
	Specialization    string          `json:"specialization"`
	YearsOfExperience int             `json:"years_of_experience"`
	Education         *string         `json:"education,omitempty"`
	Bio               *string         `json:"bio,omitempty"`
	ConsultationFee   decimal.Decimal `json:"consultation_fee"`
	AvailableFrom     string          `json:"available_from"`
	AvailableTo       string          `json:"available_to"`
	WorkingDays       string          `json:"working_days"`
	IsAvailable       bool            `json:"is_available"`
	Rating            decimal.Decimal `json:"rating"`
	TotalReviews      int             `json:"total_reviews"`
	ImageURL          *string         `json:"image_url,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// VeterinarianInput is used for both create and full update.
type VeterinarianInput struct {
	FullName          string           `json:"full_name" validate:"required,max=150"`
	Email             string           `json:"email" validate:"required,email"`
	PhoneNumber       *string          `json:"phone_number,omitempty" validate:"omitempty,max=30"`
	LicenseNumber     string           `json:"license_number" validate:"required,max=50"`
	Specialization    string           `json:"specialization" validate:"required,max=100"`
	YearsOfExperience *int             `json:"years_of_experience,omitempty" validate:"omitempty,gte=0"`
	Education         *string          `json:"education,omitempty"`
	Bio               *string          `json:"bio,omitempty"`
	ConsultationFee   decimal.Decimal  `json:"consultation_fee"`
	AvailableFrom     string           `json:"available_from,omitempty" validate:"omitempty,hhmm"`
	AvailableTo       string           `json:"available_to,omitempty" validate:"omitempty,hhmm"`
	WorkingDays       string           `json:"working_days,omitempty"`
	IsAvailable       *bool            `json:"is_available,omitempty"`
	Rating            *decimal.Decimal `json:"rating,omitempty"`
	TotalReviews      *int             `json:"total_reviews,omitempty"`
	ImageURL          *string          `json:"image_url,omitempty"`
}

func (in VeterinarianInput) applyTo(v *models.Veterinarian) {
	v.FullName = strings.TrimSpace(in.FullName)
	v.Email = strings.ToLower(strings.TrimSpace(in.Email))
	v.PhoneNumber = in.PhoneNumber
	v.LicenseNumber = strings.TrimSpace(in.LicenseNumber)
	v.Specialization = strings.TrimSpace(in.Specialization)
	if in.YearsOfExperience != nil {
		v.YearsOfExperience = *in.YearsOfExperience
	}
	v.Education = in.Education
	v.Bio = in.Bio
	v.ConsultationFee = in.ConsultationFee
	v.AvailableFrom = orDefault(in.AvailableFrom, v.AvailableFrom, defaultAvailableFrom)
	v.AvailableTo = orDefault(in.AvailableTo, v.AvailableTo, defaultAvailableTo)
	v.WorkingDays = strings.ToUpper(orDefault(in.WorkingDays, v.WorkingDays, defaultWorkingDays))
	if in.IsAvailable != nil {
		v.IsAvailable = *in.IsAvailable
	}
	if in.Rating != nil {
		v.Rating = *in.Rating
	}
	if in.TotalReviews != nil {
		v.TotalReviews = *in.TotalReviews
	}
	v.ImageURL = in.ImageURL
}

func orDefault(value, current, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	if current != "" {
		return current
	}
	return fallback
}

func FromModel(v *models.Veterinarian) *VeterinarianDTO {
	if v == nil {
		return nil
	}
	return &VeterinarianDTO{
		ID:                v.ID,
		FullName:          v.FullName,
		Email:             v.Email,
		PhoneNumber:       v.PhoneNumber,
		LicenseNumber:     v.LicenseNumber,
		Specialization:    v.Specialization,
		YearsOfExperience: v.YearsOfExperience,
		Education:         v.Education,
		Bio:               v.Bio,
		ConsultationFee:   v.ConsultationFee,
		AvailableFrom:     v.AvailableFrom,
		AvailableTo:       v.AvailableTo,
		WorkingDays:       v.WorkingDays,
		IsAvailable:       v.IsAvailable,
		Rating:            v.Rating,
		TotalReviews:      v.TotalReviews,
		ImageURL:          v.ImageURL,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

func fromModels(rows []models.Veterinarian) []*VeterinarianDTO {
	out := make([]*VeterinarianDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// ListFilters selects one directory view. The first non-empty filter wins in
// the order Query, Specialization, Available, MinExperience, MinRating.
type ListFilters struct {
	Query          string
	Specialization string
	AvailableOnly  bool
	MinExperience  *int
	MinRating      *decimal.Decimal
}
