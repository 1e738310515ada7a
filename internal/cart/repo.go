package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// Repository exposes persistence operations for carts and their items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindActiveByUser loads the user's ACTIVE cart with items and their products.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Where("user_id = ? AND status = ?", userID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.Status == "" {
		cart.Status = enums.CartStatusActive
	}
	return r.db.WithContext(ctx).Omit("Items").Create(cart).Error
}

// SaveTotals persists the aggregate amounts without touching items.
func (r *Repository) SaveTotals(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]any{
			"total_amount":    cart.TotalAmount,
			"discount_amount": cart.DiscountAmount,
			"tax_amount":      cart.TaxAmount,
			"final_amount":    cart.FinalAmount,
			"updated_at":      time.Now().UTC(),
		}).Error
}

func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

func (r *Repository) DeleteItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id IN ?", cartID, itemIDs).
		Delete(&models.CartItem{}).Error
}

func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// MarkAbandoned flips ACTIVE carts not updated since the cutoff to ABANDONED.
func (r *Repository) MarkAbandoned(ctx context.Context, untouchedSince time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("status = ? AND updated_at < ?", enums.CartStatusActive, untouchedSince).
		Updates(map[string]any{"status": enums.CartStatusAbandoned, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
