package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	Save(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params) ([]models.Order, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error)
	ListByStatuses(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error)
	ListSince(ctx context.Context, since time.Time) ([]models.Order, error)
	Search(ctx context.Context, criteria SearchCriteria, params pagination.Params) ([]models.Order, int64, error)
	SearchByQuery(ctx context.Context, query string, params pagination.Params) ([]models.Order, int64, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Inventory moves stock for order lines inside the caller's transaction.
type Inventory interface {
	Take(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}
