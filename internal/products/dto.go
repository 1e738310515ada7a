package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID                uuid.UUID             `json:"id"`
	Name              string                `json:"name"`
	Description       *string               `json:"description,omitempty"`
	ShortDescription  *string               `json:"short_description,omitempty"`
	Category          enums.ProductCategory `json:"category"`
	Brand             *string               `json:"brand,omitempty"`
	Price             decimal.Decimal       `json:"price"`
	DiscountPrice     *decimal.Decimal      `json:"discount_price,omitempty"`
	StockQuantity     int                   `json:"stock_quantity"`
	SKU               *string               `json:"sku,omitempty"`
	Weight            *string               `json:"weight,omitempty"`
	Dimensions        *string               `json:"dimensions,omitempty"`
	AgeRange          *string               `json:"age_range,omitempty"`
	PetType           *string               `json:"pet_type,omitempty"`
	Ingredients       *string               `json:"ingredients,omitempty"`
	UsageInstructions *string               `json:"usage_instructions,omitempty"`
	ImageURL          *string               `json:"image_url,omitempty"`
	IsActive          bool                  `json:"is_active"`
	IsFeatured        bool                  `json:"is_featured"`
	InStock           bool                  `json:"in_stock"`
	Rating            decimal.Decimal       `json:"rating"`
	TotalReviews      int                   `json:"total_reviews"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ProductInput is the write payload for create and update. Nil flags fall back
// to the defaults on create and keep the stored value on update.
type ProductInput struct {
	Name              string                `json:"name" validate:"required,max=200"`
	Description       *string               `json:"description,omitempty"`
	ShortDescription  *string               `json:"short_description,omitempty" validate:"omitempty,max=500"`
	Category          enums.ProductCategory `json:"category" validate:"required"`
	Brand             *string               `json:"brand,omitempty" validate:"omitempty,max=100"`
	Price             decimal.Decimal       `json:"price"`
	DiscountPrice     *decimal.Decimal      `json:"discount_price,omitempty"`
	StockQuantity     int                   `json:"stock_quantity" validate:"gte=0"`
	SKU               *string               `json:"sku,omitempty" validate:"omitempty,max=100"`
	Weight            *string               `json:"weight,omitempty"`
	Dimensions        *string               `json:"dimensions,omitempty"`
	AgeRange          *string               `json:"age_range,omitempty"`
	PetType           *string               `json:"pet_type,omitempty"`
	Ingredients       *string               `json:"ingredients,omitempty"`
	UsageInstructions *string               `json:"usage_instructions,omitempty"`
	ImageURL          *string               `json:"image_url,omitempty"`
	IsActive          *bool                 `json:"is_active,omitempty"`
	IsFeatured        *bool                 `json:"is_featured,omitempty"`
	Rating            *decimal.Decimal      `json:"rating,omitempty"`
	TotalReviews      *int                  `json:"total_reviews,omitempty"`
}

// applyTo copies every field onto the model.
func (in ProductInput) applyTo(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.ShortDescription = in.ShortDescription
	p.Category = in.Category
	p.Brand = in.Brand
	p.Price = in.Price
	p.DiscountPrice = in.DiscountPrice
	p.StockQuantity = in.StockQuantity
	p.SKU = normalizeSKU(in.SKU)
	p.Weight = in.Weight
	p.Dimensions = in.Dimensions
	p.AgeRange = in.AgeRange
	p.PetType = in.PetType
	p.Ingredients = in.Ingredients
	p.UsageInstructions = in.UsageInstructions
	p.ImageURL = in.ImageURL
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.TotalReviews != nil {
		p.TotalReviews = *in.TotalReviews
	}
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// FromModel converts a product row into its DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		ShortDescription:  p.ShortDescription,
		Category:          p.Category,
		Brand:             p.Brand,
		Price:             p.Price,
		DiscountPrice:     p.DiscountPrice,
		StockQuantity:     p.StockQuantity,
		SKU:               p.SKU,
		Weight:            p.Weight,
		Dimensions:        p.Dimensions,
		AgeRange:          p.AgeRange,
		PetType:           p.PetType,
		Ingredients:       p.Ingredients,
		UsageInstructions: p.UsageInstructions,
		ImageURL:          p.ImageURL,
		IsActive:          p.IsActive,
		IsFeatured:        p.IsFeatured,
		InStock:           p.StockQuantity > 0,
		Rating:            p.Rating,
		TotalReviews:      p.TotalReviews,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []*ProductDTO {
	out := make([]*ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
