package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

// Cart holds a user's pending line items. A user owns at most one ACTIVE cart.
type Cart struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Status         enums.CartStatus `gorm:"column:status;type:cart_status;not null"`
	TotalAmount    decimal.Decimal  `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal  `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	TaxAmount      decimal.Decimal  `gorm:"column:tax_amount;type:numeric(12,2);not null"`
	FinalAmount    decimal.Decimal  `gorm:"column:final_amount;type:numeric(12,2);not null"`
	CouponCode     *string          `gorm:"column:coupon_code"`
	Items          []CartItem       `gorm:"foreignKey:CartID"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Recalculate derives the aggregate amounts from the loaded items:
// total = sum(item totals), final = total - discount + tax.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for i := range c.Items {
		c.Items[i].TotalPrice = c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity)))
		total = total.Add(c.Items[i].TotalPrice)
	}
	c.TotalAmount = total
	c.FinalAmount = total.Sub(c.DiscountAmount).Add(c.TaxAmount)
}

// ItemCount sums quantities across the loaded items.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// CartItem is one product line inside a cart, priced from the catalog at add/update time.
type CartItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID     uuid.UUID       `gorm:"column:cart_id;type:uuid;not null"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	Product    *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
