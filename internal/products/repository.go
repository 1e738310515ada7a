package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).Order("created_at desc").Order("id").Find(&rows).Error
	return rows, err
}

// Search matches name, description or brand case-insensitively.
func (r *Repository) Search(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ? OR LOWER(COALESCE(brand, '')) LIKE ?", pattern, pattern, pattern).
		Order("name").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("name").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListFeatured(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).Where("is_featured = ?", true).Order("name").Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save writes every column of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// DecrementStock removes qty units only when enough stock remains. It reports
// false when the guard rejected the update.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	return res.RowsAffected > 0, res.Error
}

// RestoreStock adds qty units back, typically after a cancellation.
func (r *Repository) RestoreStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}
