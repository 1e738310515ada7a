package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	SaveTotals(ctx context.Context, cart *models.Cart) error
	CreateItem(ctx context.Context, item *models.CartItem) error
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	MarkAbandoned(ctx context.Context, untouchedSince time.Time) (int64, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
