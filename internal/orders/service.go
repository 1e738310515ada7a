package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/internal/cart"
	"github.com/petcareclinic/petcare-backend/internal/repo"
	"github.com/petcareclinic/petcare-backend/pkg/db/models"
	"github.com/petcareclinic/petcare-backend/pkg/enums"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
	"github.com/petcareclinic/petcare-backend/pkg/outbox"
	"github.com/petcareclinic/petcare-backend/pkg/outbox/payloads"
	"github.com/petcareclinic/petcare-backend/pkg/pagination"
)

const (
	entityName          = "order"
	defaultCancelReason = "Cancelled by customer"
	defaultRecentWindow = 30 * 24 * time.Hour
)

var toBeShipped = []enums.OrderStatus{
	enums.OrderStatusConfirmed,
	enums.OrderStatusProcessing,
	enums.OrderStatusToBeSent,
}

// Service defines checkout, fulfillment and order read operations.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*OrderDTO, error)
	AddTrackingInfo(ctx context.Context, orderID uuid.UUID, trackingNumber, carrierName string) (*OrderDTO, error)
	RecordPaymentOutcome(ctx context.Context, outcome PaymentOutcome) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error

	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderDTO, error)
	ListOrders(ctx context.Context, params pagination.Params) (pagination.Page[*OrderDTO], error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[*OrderDTO], error)
	ListByStatus(ctx context.Context, status enums.OrderStatus) ([]*OrderDTO, error)
	SearchOrders(ctx context.Context, criteria SearchCriteria, params pagination.Params) (pagination.Page[*OrderDTO], error)
	QueryOrders(ctx context.Context, query string, params pagination.Params) (pagination.Page[*OrderDTO], error)
	GetOrdersToBeShipped(ctx context.Context) ([]*OrderDTO, error)
	GetRecentOrders(ctx context.Context) ([]*OrderDTO, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
}

type ServiceParams struct {
	Repo         Repository
	Tx           txRunner
	Outbox       outboxPublisher
	Inventory    Inventory
	Logger       *logger.Logger
	RecentWindow time.Duration
	Clock        func() time.Time
}

type service struct {
	repo         Repository
	tx           txRunner
	outbox       outboxPublisher
	inventory    Inventory
	logg         *logger.Logger
	recentWindow time.Duration
	now          func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory required")
	}
	window := params.RecentWindow
	if window <= 0 {
		window = defaultRecentWindow
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:         params.Repo,
		tx:           params.Tx,
		outbox:       params.Outbox,
		inventory:    params.Inventory,
		logg:         params.Logger,
		recentWindow: window,
		now:          now,
	}, nil
}

// CreateOrder converts the selected cart lines into a confirmed order in one
// transaction. Any failure rolls everything back and is reported as
// OrderCreationFailed.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &models.Order{
		UserID:           userID,
		OrderNumber:      NewOrderNumber(now),
		Subtotal:         req.Subtotal,
		TaxAmount:        req.TaxAmount,
		ShippingCost:     decimal.Zero,
		TotalAmount:      req.TotalAmount,
		Status:           enums.OrderStatusConfirmed,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    enums.PaymentStatusCompleted,
		ShippingFullName: strings.TrimSpace(req.ShippingDetails.FullName),
		ShippingEmail:    strings.TrimSpace(req.ShippingDetails.Email),
		ShippingPhone:    strings.TrimSpace(req.ShippingDetails.Phone),
		ShippingAddress:  strings.TrimSpace(req.ShippingDetails.Address),
		ShippingCity:     strings.TrimSpace(req.ShippingDetails.City),
		ShippingState:    req.ShippingDetails.State,
		ShippingZipCode:  strings.TrimSpace(req.ShippingDetails.ZipCode),
		ShippingCountry:  strings.TrimSpace(req.ShippingDetails.Country),
		OrderDate:        now,
		Notes:            req.Notes,
	}
	order.StampStatusDate(enums.OrderStatusConfirmed, now)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		lines, err := cart.ConsumeItems(ctx, tx, userID, req.CartItemIDs)
		if err != nil {
			return err
		}

		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			item := models.OrderItem{
				OrderID:    order.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				TotalPrice: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			}
			if line.Product != nil {
				item.ProductName = line.Product.Name
				item.ProductDescription = line.Product.Description
				item.ProductImageURL = line.Product.ImageURL
			}
			items = append(items, item)

			taken, err := s.inventory.Take(ctx, tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !taken {
				s.warn(ctx, order.OrderNumber, "stock not decremented: insufficient quantity on hand", map[string]any{
					"product_id": line.ProductID.String(),
					"quantity":   line.Quantity,
				})
			}
		}
		if err := txRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		order.Items = items

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(enums.UserRoleUser)},
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				UserID:        userID,
				FinalAmount:   order.TotalAmount,
				PaymentMethod: order.PaymentMethod,
				ItemCount:     len(items),
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderCreationFailed, err, "failed to create order: "+causeMessage(err))
	}

	if s.logg != nil {
		logCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)
		logCtx = s.logg.WithUserID(logCtx, userID.String())
		s.logg.Info(logCtx, "order created")
	}
	return FromModel(order), nil
}

// UpdateOrderStatus sets status and stamps its date the first time it is reached.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return s.mutate(ctx, orderID, func(tx *gorm.DB, order *models.Order) error {
		previous := order.Status
		order.Status = status
		order.StampStatusDate(status, s.now().UTC())
		if err := s.repo.WithTx(tx).Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return s.emitStatusChanged(ctx, tx, order, previous)
	})
}

// CancelOrder is refused once the order is DELIVERED or already CANCELLED.
// Stock for every line is returned.
func (s *service) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*OrderDTO, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}
	return s.mutate(ctx, orderID, func(tx *gorm.DB, order *models.Order) error {
		if !order.Status.Cancellable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot cancel order with status %s", order.Status)).
				WithDetails(map[string]any{"status": order.Status})
		}
		at := s.now().UTC()
		order.Status = enums.OrderStatusCancelled
		order.CancelledDate = &at
		order.CancellationReason = &reason
		if err := s.repo.WithTx(tx).Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		for _, item := range order.Items {
			if err := s.inventory.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCancelledEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				UserID:      order.UserID,
				CancelledAt: at,
				Reason:      reason,
			},
		})
	})
}

// AddTrackingInfo stores the shipment reference. CONFIRMED and PROCESSING
// orders advance to SENT.
func (s *service) AddTrackingInfo(ctx context.Context, orderID uuid.UUID, trackingNumber, carrierName string) (*OrderDTO, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	carrierName = strings.TrimSpace(carrierName)
	if trackingNumber == "" || carrierName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number and carrier are required")
	}
	return s.mutate(ctx, orderID, func(tx *gorm.DB, order *models.Order) error {
		previous := order.Status
		order.TrackingNumber = &trackingNumber
		order.CarrierName = &carrierName
		if order.Status.AdvancesOnTracking() {
			at := s.now().UTC()
			order.Status = enums.OrderStatusSent
			order.ShippedDate = &at
		}
		if err := s.repo.WithTx(tx).Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add tracking info")
		}
		if order.Status == previous {
			return nil
		}
		return s.emitStatusChanged(ctx, tx, order, previous)
	})
}

// RecordPaymentOutcome applies a gateway verdict. Repeating the verdict the
// order already carries changes nothing and emits nothing. A failure leaves
// the order status alone.
func (s *service) RecordPaymentOutcome(ctx context.Context, outcome PaymentOutcome) (*OrderDTO, error) {
	number := strings.TrimSpace(outcome.OrderNumber)
	if number == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	target := enums.PaymentStatusFailed
	eventType := enums.EventPaymentFailed
	if outcome.Succeeded {
		target = enums.PaymentStatusCompleted
		eventType = enums.EventPaymentCompleted
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindByNumber(ctx, number)
		if err != nil {
			return repo.Translate(err, entityName)
		}
		result = order
		if order.PaymentStatus == target {
			return nil
		}
		order.PaymentStatus = target
		if outcome.Succeeded && order.Status == enums.OrderStatusPending {
			order.Status = enums.OrderStatusConfirmed
			order.StampStatusDate(enums.OrderStatusConfirmed, s.now().UTC())
		}
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment outcome")
		}
		return s.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.PaymentOutcomeEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				PaymentStatus: target,
				TransactionID: outcome.TransactionID,
				Amount:        order.TotalAmount,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

func (s *service) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(order), nil
}

func (s *service) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderDTO, error) {
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, repo.Translate(err, entityName)
	}
	return FromModel(order), nil
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params) (pagination.Page[*OrderDTO], error) {
	rows, total, err := s.repo.List(ctx, params)
	return toPage(rows, params, total, err)
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[*OrderDTO], error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	return toPage(rows, params, total, err)
}

func (s *service) ListByStatus(ctx context.Context, status enums.OrderStatus) ([]*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	rows, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return fromModels(rows), nil
}

func (s *service) SearchOrders(ctx context.Context, criteria SearchCriteria, params pagination.Params) (pagination.Page[*OrderDTO], error) {
	if criteria.Status != nil && !criteria.Status.IsValid() {
		return pagination.Page[*OrderDTO]{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	rows, total, err := s.repo.Search(ctx, criteria, params)
	return toPage(rows, params, total, err)
}

func (s *service) QueryOrders(ctx context.Context, query string, params pagination.Params) (pagination.Page[*OrderDTO], error) {
	rows, total, err := s.repo.SearchByQuery(ctx, query, params)
	return toPage(rows, params, total, err)
}

// GetOrdersToBeShipped lists paid orders awaiting dispatch, oldest first.
func (s *service) GetOrdersToBeShipped(ctx context.Context) ([]*OrderDTO, error) {
	rows, err := s.repo.ListByStatuses(ctx, toBeShipped)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders to ship")
	}
	return fromModels(rows), nil
}

func (s *service) GetRecentOrders(ctx context.Context) ([]*OrderDTO, error) {
	rows, err := s.repo.ListSince(ctx, s.now().UTC().Add(-s.recentWindow))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}
	return fromModels(rows), nil
}

func (s *service) CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error) {
	if !status.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	count, err := s.repo.CountByStatus(ctx, status)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return count, nil
}

func (s *service) mutate(ctx context.Context, orderID uuid.UUID, fn func(tx *gorm.DB, order *models.Order) error) (*OrderDTO, error) {
	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.WithTx(tx).FindByID(ctx, orderID)
		if err != nil {
			return repo.Translate(err, entityName)
		}
		if err := fn(tx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(result), nil
}

func (s *service) emitStatusChanged(ctx context.Context, tx *gorm.DB, order *models.Order, previous enums.OrderStatus) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Data: payloads.OrderStatusChangedEvent{
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			UserID:         order.UserID,
			PreviousStatus: previous,
			Status:         order.Status,
			TrackingNumber: order.TrackingNumber,
		},
	})
}

func (s *service) warn(ctx context.Context, orderNumber, msg string, fields map[string]any) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithOrderNumber(ctx, orderNumber)
	s.logg.Warn(s.logg.WithFields(logCtx, fields), msg)
}

func validateCreate(req CreateOrderRequest) error {
	if len(req.CartItemIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one cart item is required")
	}
	if !req.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if req.Subtotal.IsNegative() || req.TaxAmount.IsNegative() || req.TotalAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
	}
	d := req.ShippingDetails
	for field, value := range map[string]string{
		"full_name": d.FullName,
		"email":     d.Email,
		"phone":     d.Phone,
		"address":   d.Address,
		"city":      d.City,
		"zip_code":  d.ZipCode,
		"country":   d.Country,
	} {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "shipping "+field+" is required")
		}
	}
	return nil
}

func toPage(rows []models.Order, params pagination.Params, total int64, err error) (pagination.Page[*OrderDTO], error) {
	if err != nil {
		return pagination.Page[*OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return pagination.NewPage(fromModels(rows), params, total), nil
}

func causeMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "cart not found"
	}
	return err.Error()
}
