package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// Product is a sellable catalog item. StockQuantity is only mutated through
// conditional updates so it never drops below zero.
type Product struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string                `gorm:"column:name;not null"`
	Description       *string               `gorm:"column:description"`
	ShortDescription  *string               `gorm:"column:short_description"`
	Category          enums.ProductCategory `gorm:"column:category;type:product_category;not null"`
	Brand             *string               `gorm:"column:brand"`
	Price             decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountPrice     *decimal.Decimal      `gorm:"column:discount_price;type:numeric(10,2)"`
	StockQuantity     int                   `gorm:"column:stock_quantity;not null"`
	SKU               *string               `gorm:"column:sku;uniqueIndex"`
	Weight            *string               `gorm:"column:weight"`
	Dimensions        *string               `gorm:"column:dimensions"`
	AgeRange          *string               `gorm:"column:age_range"`
	PetType           *string               `gorm:"column:pet_type"`
	Ingredients       *string               `gorm:"column:ingredients"`
	UsageInstructions *string               `gorm:"column:usage_instructions"`
	ImageURL          *string               `gorm:"column:image_url"`
	IsActive          bool                  `gorm:"column:is_active;not null"`
	IsFeatured        bool                  `gorm:"column:is_featured;not null"`
	Rating            decimal.Decimal       `gorm:"column:rating;type:numeric(3,2);not null"`
	TotalReviews      int                   `gorm:"column:total_reviews;not null"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
