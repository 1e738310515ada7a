package payments

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Signer produces and checks PayHere MD5 signatures for a single merchant.
type Signer struct {
	merchantID   string
	hashedSecret string
}

func NewSigner(merchantID, merchantSecret string) Signer {
	return Signer{
		merchantID:   strings.TrimSpace(merchantID),
		hashedSecret: upperMD5(strings.TrimSpace(merchantSecret)),
	}
}

func (s Signer) MerchantID() string { return s.merchantID }

// CheckoutHash signs merchant_id + order_id + amount + currency + UPPER(MD5(secret)).
// The amount is always rendered with two decimals.
func (s Signer) CheckoutHash(orderID string, amount decimal.Decimal, currency string) string {
	return upperMD5(s.merchantID + orderID + FormatAmount(amount) + currency + s.hashedSecret)
}

// NotificationSignature is the md5sig PayHere attaches to a notify callback.
func (s Signer) NotificationSignature(n Notification) string {
	return upperMD5(n.MerchantID + n.OrderID + n.Amount + n.Currency + n.StatusCode + s.hashedSecret)
}

func (s Signer) Verify(n Notification) bool {
	if n.MerchantID != s.merchantID {
		return false
	}
	return strings.EqualFold(s.NotificationSignature(n), strings.TrimSpace(n.MD5Sig))
}

func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func upperMD5(value string) string {
	sum := md5.Sum([]byte(value))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
