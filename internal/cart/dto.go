package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// CartDTO is the cart view returned to its owner. ID is nil when the user has
// no ACTIVE cart yet.
type CartDTO struct {
	ID             *uuid.UUID       `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	Status         enums.CartStatus `json:"status"`
	Items          []CartItemDTO    `json:"items"`
	ItemCount      int              `json:"item_count"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	TaxAmount      decimal.Decimal  `json:"tax_amount"`
	FinalAmount    decimal.Decimal  `json:"final_amount"`
	CouponCode     *string          `json:"coupon_code,omitempty"`
}

type CartItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"`
	InStock      int             `json:"stock_quantity"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// AddItemRequest is the add-to-cart payload. Prices are always taken from the catalog.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func emptyCart(userID uuid.UUID) *CartDTO {
	return &CartDTO{
		UserID:         userID,
		Status:         enums.CartStatusActive,
		Items:          []CartItemDTO{},
		TotalAmount:    decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		FinalAmount:    decimal.Zero,
	}
}

func FromModel(cart *models.Cart) *CartDTO {
	id := cart.ID
	dto := &CartDTO{
		ID:             &id,
		UserID:         cart.UserID,
		Status:         cart.Status,
		Items:          make([]CartItemDTO, 0, len(cart.Items)),
		ItemCount:      cart.ItemCount(),
		TotalAmount:    cart.TotalAmount,
		DiscountAmount: cart.DiscountAmount,
		TaxAmount:      cart.TaxAmount,
		FinalAmount:    cart.FinalAmount,
		CouponCode:     cart.CouponCode,
	}
	for _, item := range cart.Items {
		line := CartItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.ImageURL = item.Product.ImageURL
			line.InStock = item.Product.StockQuantity
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
