package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// OrderCreatedEvent is emitted once the order rows and stock decrements commit.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	UserID        uuid.UUID           `json:"user_id"`
	FinalAmount   decimal.Decimal     `json:"final_amount"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	ItemCount     int                 `json:"item_count"`
}

type OrderStatusChangedEvent struct {
	OrderID        uuid.UUID         `json:"order_id"`
	OrderNumber    string            `json:"order_number"`
	UserID         uuid.UUID         `json:"user_id"`
	PreviousStatus enums.OrderStatus `json:"previous_status"`
	Status         enums.OrderStatus `json:"status"`
	TrackingNumber *string           `json:"tracking_number,omitempty"`
}

// OrderCancelledEvent carries the reason given by the customer or admin.
type OrderCancelledEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// PaymentOutcomeEvent backs both payment_completed and payment_failed.
type PaymentOutcomeEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	TransactionID string              `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal     `json:"amount"`
}

type AppointmentBookedEvent struct {
	AppointmentID   uuid.UUID  `json:"appointment_id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	VeterinarianID  uuid.UUID  `json:"veterinarian_id"`
	AppointmentDate string     `json:"appointment_date"`
	AppointmentTime string     `json:"appointment_time"`
	OwnerEmail      string     `json:"owner_email"`
}

type AppointmentCancelledEvent struct {
	AppointmentID  uuid.UUID `json:"appointment_id"`
	VeterinarianID uuid.UUID `json:"veterinarian_id"`
	Reason         string    `json:"reason,omitempty"`
}

// TestimonialSubmittedEvent lets moderators know a testimonial is waiting for approval.
type TestimonialSubmittedEvent struct {
	TestimonialID uuid.UUID  `json:"testimonial_id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Rating        int        `json:"rating"`
}
