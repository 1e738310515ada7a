package testimonials

import (
	"time"

	"github.com/google/uuid"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
)

type TestimonialDTO struct {
	ID               uuid.UUID  `json:"id"`
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	AppointmentID    *uuid.UUID `json:"appointment_id,omitempty"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    *string    `json:"customer_email,omitempty"`
	CustomerImageURL *string    `json:"customer_image_url,omitempty"`
	Rating           int        `json:"rating"`
	Title            *string    `json:"title,omitempty"`
	Content          string     `json:"content"`
	PetName          *string    `json:"pet_name,omitempty"`
	PetType          *string    `json:"pet_type,omitempty"`
	ServiceType      *string    `json:"service_type,omitempty"`
	IsApproved       bool       `json:"is_approved"`
	IsFeatured       bool       `json:"is_featured"`
	ApprovedBy       *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TestimonialInput carries the customer-editable fields.
type TestimonialInput struct {
	CustomerName     string  `json:"customer_name" validate:"required,max=150"`
	CustomerEmail    *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerImageURL *string `json:"customer_image_url,omitempty" validate:"omitempty,url"`
	Rating           int     `json:"rating" validate:"required,min=1,max=5"`
	Title            *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content          string  `json:"content" validate:"required"`
	PetName          *string `json:"pet_name,omitempty"`
	PetType          *string `json:"pet_type,omitempty"`
	ServiceType      *string `json:"service_type,omitempty"`
}

// ReviewInput is the post-visit review left on an appointment.
type ReviewInput struct {
	AppointmentRating int    `json:"appointment_rating" validate:"required,min=1,max=5"`
	DoctorRating      int    `json:"doctor_rating" validate:"required,min=1,max=5"`
	Comment           string `json:"comment" validate:"required"`
}

type ListFilters struct {
	Approved *bool
	Featured *bool
}

func (in TestimonialInput) applyTo(t *models.Testimonial) {
	t.CustomerName = in.CustomerName
	t.CustomerEmail = in.CustomerEmail
	t.CustomerImageURL = in.CustomerImageURL
	t.Rating = in.Rating
	t.Title = in.Title
	t.Content = in.Content
	t.PetName = in.PetName
	t.PetType = in.PetType
	t.ServiceType = in.ServiceType
}

func FromModel(t *models.Testimonial) *TestimonialDTO {
	if t == nil {
		return nil
	}
	return &TestimonialDTO{
		ID:               t.ID,
		UserID:           t.UserID,
		AppointmentID:    t.AppointmentID,
		CustomerName:     t.CustomerName,
		CustomerEmail:    t.CustomerEmail,
		CustomerImageURL: t.CustomerImageURL,
		Rating:           t.Rating,
		Title:            t.Title,
		Content:          t.Content,
		PetName:          t.PetName,
		PetType:          t.PetType,
		ServiceType:      t.ServiceType,
		IsApproved:       t.IsApproved,
		IsFeatured:       t.IsFeatured,
		ApprovedBy:       t.ApprovedBy,
		ApprovedAt:       t.ApprovedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func fromModels(rows []models.Testimonial) []*TestimonialDTO {
	out := make([]*TestimonialDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
