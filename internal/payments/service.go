package payments

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/petcareclinic/petcare-backend/internal/orders"
	"github.com/petcareclinic/petcare-backend/pkg/config"
	pkgerrors "github.com/petcareclinic/petcare-backend/pkg/errors"
	"github.com/petcareclinic/petcare-backend/pkg/logger"
)

type outcomeRecorder interface {
	RecordPaymentOutcome(ctx context.Context, outcome orders.PaymentOutcome) (*orders.OrderDTO, error)
}

type notificationGuard interface {
	CheckAndMark(ctx context.Context, notificationID string) (bool, error)
	Delete(ctx context.Context, notificationID string) error
}

type ServiceParams struct {
	Orders outcomeRecorder
	Guard  notificationGuard
	Config config.PayHereConfig
	Logger *logger.Logger
}

// Service bridges the PayHere hosted checkout with order payment state.
type Service struct {
	orders   outcomeRecorder
	guard    notificationGuard
	signer   Signer
	currency string
	enabled  bool
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service is required")
	}
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Config.Currency))
	if currency == "" {
		currency = "LKR"
	}
	return &Service{
		orders:   params.Orders,
		guard:    params.Guard,
		signer:   NewSigner(params.Config.MerchantID, params.Config.MerchantSecret),
		currency: currency,
		enabled:  params.Config.Configured(),
		logg:     params.Logger,
	}, nil
}

// GenerateHash signs a checkout request for the browser-side PayHere SDK.
func (s *Service) GenerateHash(ctx context.Context, req HashRequest) (*HashResponse, error) {
	if !s.enabled {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway is not configured")
	}
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	if !req.Amount.GreaterThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.currency
	}
	return &HashResponse{
		Hash:       s.signer.CheckoutHash(orderID, req.Amount, currency),
		MerchantID: s.signer.MerchantID(),
		Amount:     FormatAmount(req.Amount),
		Currency:   currency,
	}, nil
}

// HandleNotification verifies a notify callback and records its outcome on
// the order. Pending notifications and replays are acknowledged silently.
func (s *Service) HandleNotification(ctx context.Context, n Notification) error {
	if !s.enabled {
		return pkgerrors.New(pkgerrors.CodeDependency, "payment gateway is not configured")
	}
	if n.OrderID == "" || n.StatusCode == "" || n.MD5Sig == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "incomplete payment notification")
	}
	ctx = s.logg.WithOrderNumber(ctx, n.OrderID)
	if !s.signer.Verify(n) {
		s.logg.Warn(ctx, "payhere notification signature mismatch")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid payment signature")
	}

	var succeeded bool
	switch n.StatusCode {
	case StatusSuccess:
		succeeded = true
	case StatusCanceled, StatusFailed, StatusChargedBack:
		succeeded = false
	case StatusPending:
		s.logg.Info(ctx, "payhere notification pending")
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status code").
			WithDetails(map[string]string{"status_code": n.StatusCode})
	}

	key := n.dedupeKey()
	duplicate, err := s.guard.CheckAndMark(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment notification idempotency check failed")
	}
	if duplicate {
		s.logg.Info(ctx, "payhere notification already processed")
		return nil
	}

	_, err = s.orders.RecordPaymentOutcome(ctx, orders.PaymentOutcome{
		OrderNumber:   n.OrderID,
		Succeeded:     succeeded,
		TransactionID: n.PaymentID,
	})
	if err != nil {
		if delErr := s.guard.Delete(ctx, key); delErr != nil {
			s.logg.Error(ctx, "failed to clear payment notification key", delErr)
		}
		return err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"payment_id":  n.PaymentID,
		"status_code": n.StatusCode,
		"method":      n.Method,
	}), "payhere notification applied")
	return nil
}
