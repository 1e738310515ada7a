package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// ShippingDetails is copied onto the order at checkout.
type ShippingDetails struct {
	FullName string  `json:"full_name" validate:"required,max=150"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone" validate:"required,max=30"`
	Address  string  `json:"address" validate:"required"`
	City     string  `json:"city" validate:"required,max=100"`
	State    *string `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode  string  `json:"zip_code" validate:"required,max=20"`
	Country  string  `json:"country" validate:"required,max=100"`
}

// CreateOrderRequest turns selected cart lines into an order.
type CreateOrderRequest struct {
	CartItemIDs     []uuid.UUID         `json:"cart_item_ids" validate:"required,min=1,dive,required"`
	ShippingDetails ShippingDetails     `json:"shipping_details" validate:"required"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Notes           *string             `json:"notes,omitempty"`
}

type StatusUpdateRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

type TrackingRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required,max=100"`
	CarrierName    string `json:"carrier_name" validate:"required,max=100"`
}

// SearchCriteria fields are optional; unset fields do not filter.
type SearchCriteria struct {
	UserID       *uuid.UUID
	Status       *enums.OrderStatus
	OrderNumber  string
	CustomerName string
}

// PaymentOutcome is a gateway verdict for one order.
type PaymentOutcome struct {
	OrderNumber   string
	Succeeded     bool
	TransactionID string
}

type OrderDTO struct {
	ID                 uuid.UUID           `json:"id"`
	UserID             uuid.UUID           `json:"user_id"`
	OrderNumber        string              `json:"order_number"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	TaxAmount          decimal.Decimal     `json:"tax_amount"`
	ShippingCost       decimal.Decimal     `json:"shipping_cost"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	Status             enums.OrderStatus   `json:"status"`
	PaymentMethod      enums.PaymentMethod `json:"payment_method"`
	PaymentStatus      enums.PaymentStatus `json:"payment_status"`
	Shipping           ShippingDetails     `json:"shipping"`
	TrackingNumber     *string             `json:"tracking_number,omitempty"`
	CarrierName        *string             `json:"carrier_name,omitempty"`
	OrderDate          time.Time           `json:"order_date"`
	ConfirmedDate      *time.Time          `json:"confirmed_date,omitempty"`
	ShippedDate        *time.Time          `json:"shipped_date,omitempty"`
	DeliveredDate      *time.Time          `json:"delivered_date,omitempty"`
	CancelledDate      *time.Time          `json:"cancelled_date,omitempty"`
	CancellationReason *string             `json:"cancellation_reason,omitempty"`
	Notes              *string             `json:"notes,omitempty"`
	Items              []OrderItemDTO      `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type OrderItemDTO struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	ProductName        string          `json:"product_name"`
	ProductDescription *string         `json:"product_description,omitempty"`
	ProductImageURL    *string         `json:"product_image_url,omitempty"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            o.ID,
		UserID:        o.UserID,
		OrderNumber:   o.OrderNumber,
		Subtotal:      o.Subtotal,
		TaxAmount:     o.TaxAmount,
		ShippingCost:  o.ShippingCost,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Shipping: ShippingDetails{
			FullName: o.ShippingFullName,
			Email:    o.ShippingEmail,
			Phone:    o.ShippingPhone,
			Address:  o.ShippingAddress,
			City:     o.ShippingCity,
			State:    o.ShippingState,
			ZipCode:  o.ShippingZipCode,
			Country:  o.ShippingCountry,
		},
		TrackingNumber:     o.TrackingNumber,
		CarrierName:        o.CarrierName,
		OrderDate:          o.OrderDate,
		ConfirmedDate:      o.ConfirmedDate,
		ShippedDate:        o.ShippedDate,
		DeliveredDate:      o.DeliveredDate,
		CancelledDate:      o.CancelledDate,
		CancellationReason: o.CancellationReason,
		Notes:              o.Notes,
		Items:              make([]OrderItemDTO, 0, len(o.Items)),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			TotalPrice:         item.TotalPrice,
			ProductName:        item.ProductName,
			ProductDescription: item.ProductDescription,
			ProductImageURL:    item.ProductImageURL,
		})
	}
	return dto
}

func fromModels(rows []models.Order) []*OrderDTO {
	out := make([]*OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
