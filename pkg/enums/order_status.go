package enums

import (
	"fmt"
	"strings"
)

// OrderStatus is the fulfillment lifecycle of an order:
// PENDING -> CONFIRMED -> PROCESSING -> TO_BE_SENT -> SENT -> DELIVERED,
// with CANCELLED and REFUNDED as side exits.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusToBeSent   OrderStatus = "TO_BE_SENT"
	OrderStatusSent       OrderStatus = "SENT"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusToBeSent,
	OrderStatusSent,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// ShippableOrderStatuses are the statuses of orders waiting to leave the warehouse.
var ShippableOrderStatuses = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusToBeSent,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s != OrderStatusDelivered && s != OrderStatusCancelled
}

// AdvancesOnTracking reports whether attaching tracking info moves the order to SENT.
func (s OrderStatus) AdvancesOnTracking() bool {
	return s == OrderStatusConfirmed || s == OrderStatusProcessing
}

// ParseOrderStatus converts raw input into an OrderStatus, ignoring case.
func ParseOrderStatus(value string) (OrderStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validOrderStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
