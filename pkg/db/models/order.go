package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// Order is the immutable checkout snapshot plus its mutable fulfillment and payment state.
type Order struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	OrderNumber        string              `gorm:"column:order_number;not null;uniqueIndex"`
	Subtotal           decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TaxAmount          decimal.Decimal     `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	ShippingCost       decimal.Decimal     `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	TotalAmount        decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status             enums.OrderStatus   `gorm:"column:status;type:order_status;not null"`
	PaymentMethod      enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	PaymentStatus      enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null"`
	ShippingFullName   string              `gorm:"column:shipping_full_name;not null"`
	ShippingEmail      string              `gorm:"column:shipping_email;not null"`
	ShippingPhone      string              `gorm:"column:shipping_phone;not null"`
	ShippingAddress    string              `gorm:"column:shipping_address;not null"`
	ShippingCity       string              `gorm:"column:shipping_city;not null"`
	ShippingState      *string             `gorm:"column:shipping_state"`
	ShippingZipCode    string              `gorm:"column:shipping_zip_code;not null"`
	ShippingCountry    string              `gorm:"column:shipping_country;not null"`
	TrackingNumber     *string             `gorm:"column:tracking_number"`
	CarrierName        *string             `gorm:"column:carrier_name"`
	OrderDate          time.Time           `gorm:"column:order_date;not null"`
	ConfirmedDate      *time.Time          `gorm:"column:confirmed_date"`
	ShippedDate        *time.Time          `gorm:"column:shipped_date"`
	DeliveredDate      *time.Time          `gorm:"column:delivered_date"`
	CancelledDate      *time.Time          `gorm:"column:cancelled_date"`
	CancellationReason *string             `gorm:"column:cancellation_reason"`
	Notes              *string             `gorm:"column:notes"`
	Items              []OrderItem         `gorm:"foreignKey:OrderID"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// StampStatusDate records the date for the status the first time it is reached.
// Statuses without a dedicated date column are ignored.
func (o *Order) StampStatusDate(status enums.OrderStatus, at time.Time) {
	var slot **time.Time
	switch status {
	case enums.OrderStatusConfirmed:
		slot = &o.ConfirmedDate
	case enums.OrderStatusSent:
		slot = &o.ShippedDate
	case enums.OrderStatusDelivered:
		slot = &o.DeliveredDate
	case enums.OrderStatusCancelled:
		slot = &o.CancelledDate
	default:
		return
	}
	if *slot == nil {
		ts := at
		*slot = &ts
	}
}

// OrderItem freezes the product details at checkout so catalog edits never rewrite history.
type OrderItem struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID            uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID          uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity           int             `gorm:"column:quantity;not null"`
	UnitPrice          decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice         decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	ProductName        string          `gorm:"column:product_name;not null"`
	ProductDescription *string         `gorm:"column:product_description"`
	ProductImageURL    *string         `gorm:"column:product_image_url"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
