package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petcareclinic/petcare-backend/pkg/enums"
)

func TestCartRecalculate(t *testing.T) {
	cart := &Cart{
		DiscountAmount: decimal.RequireFromString("5.00"),
		TaxAmount:      decimal.RequireFromString("2.50"),
		Items: []CartItem{
			{Quantity: 3, UnitPrice: decimal.RequireFromString("10.00")},
			{Quantity: 1, UnitPrice: decimal.RequireFromString("4.25")},
		},
	}

	cart.Recalculate()

	assert.True(t, cart.Items[0].TotalPrice.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("34.25")))
	assert.True(t, cart.FinalAmount.Equal(decimal.RequireFromString("31.75")))
	assert.Equal(t, 4, cart.ItemCount())
}

func TestCartRecalculateEmpty(t *testing.T) {
	cart := &Cart{}
	cart.Recalculate()
	assert.True(t, cart.TotalAmount.IsZero())
	assert.True(t, cart.FinalAmount.IsZero())
	assert.Zero(t, cart.ItemCount())
}

func TestOrderStampStatusDateOnlyOnce(t *testing.T) {
	first := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)
	order := &Order{}

	order.StampStatusDate(enums.OrderStatusSent, first)
	order.StampStatusDate(enums.OrderStatusSent, later)
	require.NotNil(t, order.ShippedDate)
	assert.True(t, order.ShippedDate.Equal(first))

	order.StampStatusDate(enums.OrderStatusProcessing, later)
	assert.Nil(t, order.ConfirmedDate)
	assert.Nil(t, order.DeliveredDate)
}

func TestEnsureID(t *testing.T) {
	var id uuid.UUID
	ensureID(&id)
	assert.NotEqual(t, uuid.Nil, id)

	existing := uuid.New()
	kept := existing
	ensureID(&kept)
	assert.Equal(t, existing, kept)
}
