package payments

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// PayHere status codes carried by notify callbacks.
const (
	StatusSuccess     = "2"
	StatusPending     = "0"
	StatusCanceled    = "-1"
	StatusFailed      = "-2"
	StatusChargedBack = "-3"
)

type HashRequest struct {
	OrderID  string          `json:"orderId" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type HashResponse struct {
	Hash       string `json:"hash"`
	MerchantID string `json:"merchant_id"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

// Notification is the form-encoded body PayHere posts to the notify URL.
type Notification struct {
	MerchantID    string
	OrderID       string
	PaymentID     string
	Amount        string
	Currency      string
	StatusCode    string
	MD5Sig        string
	StatusMessage string
	Method        string
}

func ParseNotification(form url.Values) Notification {
	get := func(key string) string { return strings.TrimSpace(form.Get(key)) }
	return Notification{
		MerchantID:    get("merchant_id"),
		OrderID:       get("order_id"),
		PaymentID:     get("payment_id"),
		Amount:        get("payhere_amount"),
		Currency:      get("payhere_currency"),
		StatusCode:    get("status_code"),
		MD5Sig:        get("md5sig"),
		StatusMessage: get("status_message"),
		Method:        get("method"),
	}
}

// dedupeKey identifies a notification for the idempotency guard.
func (n Notification) dedupeKey() string {
	if n.PaymentID != "" {
		return n.PaymentID + ":" + n.StatusCode
	}
	return n.OrderID + ":" + n.StatusCode
}
