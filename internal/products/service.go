package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

const entityName = "product"

// Service exposes catalog management and browse operations.
type Service interface {
	ListProducts(ctx context.Context, filters ListFilters) ([]*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	ListByCategory(ctx context.Context, category enums.ProductCategory) ([]models.Product, error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo productRepository
}

// NewService constructs a product service instance.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters) ([]*ProductDTO, error) {
	var (
		rows []models.Product
		err  error
	)
	switch {
	case strings.TrimSpace(filters.Query) != "":
		rows, err = s.repo.Search(ctx, filters.Query)
	case filters.Category != nil:
		if !filters.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		rows, err = s.repo.ListByCategory(ctx, *filters.Category)
	case filters.Featured:
		rows, err = s.repo.ListFeatured(ctx)
	default:
		rows, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return fromModels(rows), nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(product), nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		IsActive: true,
		Rating:   decimal.Zero,
	}
	input.applyTo(product)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, mapWriteError(err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}

	input.applyTo(product)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, mapWriteError(err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if !input.Price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if input.DiscountPrice != nil && (input.DiscountPrice.IsNegative() || input.DiscountPrice.GreaterThan(input.Price)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount price must be between zero and price")
	}
	if input.StockQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}
	if input.Rating != nil && (input.Rating.IsNegative() || input.Rating.GreaterThan(decimal.NewFromInt(5))) {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 0 and 5")
	}
	if input.TotalReviews != nil && *input.TotalReviews < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total reviews cannot be negative")
	}
	return nil
}

func mapWriteError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
