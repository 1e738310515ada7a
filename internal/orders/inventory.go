package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/petcareclinic/petcare-backend/internal/products"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

type catalogInventory struct{}

// NewInventory adjusts product stock through the catalog repository.
func NewInventory() Inventory {
	return catalogInventory{}
}

// Take decrements stock only when enough is on hand and reports whether it did.
func (catalogInventory) Take(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return true, nil
	}
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock update")
	}
	return product.NewRepository(tx).DecrementStock(ctx, productID, qty)
}

func (catalogInventory) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock update")
	}
	if err := product.NewRepository(tx).RestoreStock(ctx, productID, qty); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
	}
	return nil
}
