package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
)

// Service exposes the shopping cart of a single user.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	ItemCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
	users    userLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader, users userLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	return &service{repo: repo, tx: tx, products: products, users: users}, nil
}

// AddItem puts quantity units of a product in the user's ACTIVE cart, creating
// the cart on first use. Adding a product already present increases its line.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, repo.Translate(err, "user")
	}
	product, err := s.loadProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var result *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := s.activeCartForUpdate(ctx, txRepo, userID)
		if err != nil {
			return err
		}

		var existing *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ProductID == product.ID {
				existing = &cart.Items[i]
				break
			}
		}

		requested := req.Quantity
		if existing != nil {
			requested += existing.Quantity
		}
		if err := checkStock(product, requested); err != nil {
			return err
		}

		if existing != nil {
			existing.Quantity = requested
			existing.UnitPrice = product.Price
			existing.TotalPrice = product.Price.Mul(decimalQty(requested))
			existing.Product = product
			if err := txRepo.SaveItem(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
		} else {
			item := models.CartItem{
				CartID:     cart.ID,
				ProductID:  product.ID,
				Quantity:   requested,
				UnitPrice:  product.Price,
				TotalPrice: product.Price.Mul(decimalQty(requested)),
			}
			if err := txRepo.CreateItem(ctx, &item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
			item.Product = product
			cart.Items = append(cart.Items, item)
		}

		if err := recalculate(ctx, txRepo, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

// GetActiveCart never creates a cart; users without one get an empty view.
func (s *service) GetActiveCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCart(userID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return FromModel(cart), nil
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, item, err := ownedItem(ctx, txRepo, userID, itemID)
		if err != nil {
			return err
		}
		product, err := s.loadProduct(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if err := checkStock(product, quantity); err != nil {
			return err
		}
		item.Quantity = quantity
		item.UnitPrice = product.Price
		item.TotalPrice = product.Price.Mul(decimalQty(quantity))
		item.Product = product
		if err := txRepo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		if err := recalculate(ctx, txRepo, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	var result *models.Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, item, err := ownedItem(ctx, txRepo, userID, itemID)
		if err != nil {
			return err
		}
		if err := txRepo.DeleteItems(ctx, cart.ID, []uuid.UUID{item.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		cart.Items = withoutItems(cart.Items, map[uuid.UUID]struct{}{item.ID: {}})
		if err := recalculate(ctx, txRepo, cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if err := txRepo.ClearItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		cart.Items = nil
		return recalculate(ctx, txRepo, cart)
	})
}

// ItemCount sums quantities in the ACTIVE cart. Lookup failures are returned,
// not reported as an empty cart.
func (s *service) ItemCount(ctx context.Context, userID uuid.UUID) (int, error) {
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart.ItemCount(), nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) activeCartForUpdate(ctx context.Context, txRepo CartRepository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := txRepo.FindActiveByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	cart = &models.Cart{UserID: userID}
	if err := txRepo.Create(ctx, cart); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart is being created concurrently")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

func ownedItem(ctx context.Context, txRepo CartRepository, userID, itemID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	cart, err := txRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return cart, &cart.Items[i], nil
		}
	}
	return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
}

// StockShortage is attached to InsufficientStock errors.
type StockShortage struct {
	ProductID uuid.UUID `json:"product_id"`
	Available int       `json:"available"`
	Requested int       `json:"requested"`
}

func checkStock(product *models.Product, requested int) error {
	if requested <= product.StockQuantity {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %s", product.Name)).
		WithDetails(StockShortage{ProductID: product.ID, Available: product.StockQuantity, Requested: requested})
}
