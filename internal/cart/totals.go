package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

func decimalQty(q int) decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}

func recalculate(ctx context.Context, txRepo CartRepository, cart *models.Cart) error {
	cart.Recalculate()
	if err := txRepo.SaveTotals(ctx, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart totals")
	}
	return nil
}

func withoutItems(items []models.CartItem, drop map[uuid.UUID]struct{}) []models.CartItem {
	kept := items[:0]
	for _, item := range items {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	return kept
}

// ConsumeItems removes the given lines from the user's ACTIVE cart inside tx
// and recomputes what remains. Every id must belong to that cart.
func ConsumeItems(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemIDs []uuid.UUID) ([]models.CartItem, error) {
	txRepo := NewRepository(tx)
	cart, err := txRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	consumed := make([]models.CartItem, 0, len(wanted))
	for _, item := range cart.Items {
		if _, ok := wanted[item.ID]; ok {
			consumed = append(consumed, item)
		}
	}
	if len(consumed) != len(wanted) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := txRepo.DeleteItems(ctx, cart.ID, itemIDs); err != nil {
		return nil, err
	}
	cart.Items = withoutItems(cart.Items, wanted)
	if err := recalculate(ctx, txRepo, cart); err != nil {
		return nil, err
	}
	return consumed, nil
}
