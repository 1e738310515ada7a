package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatusIgnoresCase(t *testing.T) {
	status, err := ParseOrderStatus(" to_be_sent ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusToBeSent, status)

	_, err = ParseOrderStatus("SHIPPED")
	assert.Error(t, err)
}

func TestOrderStatusCancellable(t *testing.T) {
	assert.False(t, OrderStatusDelivered.Cancellable())
	assert.False(t, OrderStatusCancelled.Cancellable())
	assert.True(t, OrderStatusConfirmed.Cancellable())
	assert.True(t, OrderStatusSent.Cancellable())
}

func TestOrderStatusAdvancesOnTracking(t *testing.T) {
	assert.True(t, OrderStatusConfirmed.AdvancesOnTracking())
	assert.True(t, OrderStatusProcessing.AdvancesOnTracking())
	assert.False(t, OrderStatusSent.AdvancesOnTracking())
	assert.False(t, OrderStatusCancelled.AdvancesOnTracking())
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("veterinarian")
	require.NoError(t, err)
	assert.Equal(t, UserRoleVeterinarian, role)

	_, err = ParseUserRole("root")
	assert.Error(t, err)
}

func TestPaymentStatusIsValid(t *testing.T) {
	assert.True(t, PaymentStatusCompleted.IsValid())
	assert.False(t, PaymentStatus("completed").IsValid())
}

func TestOutboxEventTypes(t *testing.T) {
	parsed, err := ParseOutboxEventType("order_created")
	require.NoError(t, err)
	assert.Equal(t, EventOrderCreated, parsed)
	assert.False(t, OutboxEventType("order_paid").IsValid())
	assert.True(t, OutboxDLQReasonMaxAttempts.IsValid())
}
