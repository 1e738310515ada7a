package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// MustCreateTestProduct inserts an active product with the given stock and price.
func MustCreateTestProduct(t *testing.T, conn *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Category:      enums.ProductCategoryFood,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
		Rating:        decimal.Zero,
	}
	if err := NewRepository(conn).Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}
