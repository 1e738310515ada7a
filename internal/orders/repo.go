package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

const newestFirst = "order_date DESC"

var sortColumns = map[string]string{
	"orderDate":   "order_date",
	"totalAmount": "total_amount",
	"status":      "status",
	"orderNumber": "order_number",
	"createdAt":   "created_at",
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return r.first(ctx, "order_number = ?", strings.TrimSpace(orderNumber))
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Order, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&models.Order{}), params)
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	params.SortBy, params.SortDir = "orderDate", pagination.SortDesc
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	return r.page(query, params)
}

func (r *repository) ListByStatus(ctx context.Context, status enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).Where("status = ?", status).Order(newestFirst).Find(&orders).Error
	return orders, err
}

// ListByStatuses returns matching orders oldest first.
func (r *repository) ListByStatuses(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).Where("status IN ?", statuses).Order("order_date ASC").Find(&orders).Error
	return orders, err
}

func (r *repository) ListSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.withItems(ctx).Where("order_date >= ?", since).Order(newestFirst).Find(&orders).Error
	return orders, err
}

// Search narrows by each criterion that is set. Text criteria match
// case-insensitive substrings.
func (r *repository) Search(ctx context.Context, criteria SearchCriteria, params pagination.Params) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if criteria.UserID != nil {
		query = query.Where("user_id = ?", *criteria.UserID)
	}
	if criteria.Status != nil {
		query = query.Where("status = ?", *criteria.Status)
	}
	if term := likeTerm(criteria.OrderNumber); term != "" {
		query = query.Where("LOWER(order_number) LIKE ?", term)
	}
	if term := likeTerm(criteria.CustomerName); term != "" {
		query = query.Where("LOWER(shipping_full_name) LIKE ?", term)
	}
	params.SortBy, params.SortDir = "orderDate", pagination.SortDesc
	return r.page(query, params)
}

// SearchByQuery matches the order number, the shipping name or email, and the
// owning user's name or email.
func (r *repository) SearchByQuery(ctx context.Context, q string, params pagination.Params) ([]models.Order, int64, error) {
	term := likeTerm(q)
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if term != "" {
		users := r.db.WithContext(ctx).
			Model(&models.User{}).
			Select("id").
			Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", term, term, term)
		query = query.Where(
			"LOWER(order_number) LIKE ? OR LOWER(shipping_full_name) LIKE ? OR LOWER(shipping_email) LIKE ? OR user_id IN (?)",
			term, term, term, users,
		)
	}
	params.SortBy, params.SortDir = "orderDate", pagination.SortDesc
	return r.page(query, params)
}

func (r *repository) CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *repository) first(ctx context.Context, query string, args ...any) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).Where(query, args...).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *repository) page(query *gorm.DB, params pagination.Params) ([]models.Order, int64, error) {
	return repo.Paginate[models.Order](query, params, sortColumns, "order_date", preloadItems)
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items")
}

func likeTerm(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	return "%" + value + "%"
}
