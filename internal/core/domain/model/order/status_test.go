package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.Pending, order.ReadyForPickup, order.Assigned, order.PickedUp,
		order.InTransit, order.Delivered, order.DeliveryFailed, order.Cancelled,
	}
}

func TestStatus_ParseRoundTrip(t *testing.T) {
	for _, s := range allStatuses() {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := order.ParseStatus(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
			require.NoError(t, s.Validate())
		})
	}

	_, err := order.ParseStatus("completed")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "unknown", order.Unknown.String())
	assert.Error(t, order.Status(42).Validate())
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Pending:        {order.ReadyForPickup, order.Cancelled},
		order.ReadyForPickup: {order.Assigned, order.Cancelled},
		order.Assigned:       {order.PickedUp, order.Cancelled, order.DeliveryFailed},
		order.PickedUp:       {order.InTransit, order.Cancelled, order.DeliveryFailed},
		order.InTransit:      {order.Delivered, order.Cancelled, order.DeliveryFailed},
		order.Delivered:      nil,
		order.DeliveryFailed: nil,
		order.Cancelled:      nil,
	}

	for from, targets := range allowed {
		for _, to := range allStatuses() {
			assert.Equal(t, contains(targets, to), from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_NoTransitionLeavesTerminal(t *testing.T) {
	for _, from := range allStatuses() {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allStatuses() {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_ValidateCanHaveWorker(t *testing.T) {
	for _, s := range allStatuses() {
		if s.RequiresWorker() {
			assert.NoError(t, s.ValidateCanHaveWorker(true), s.String())
			assert.Error(t, s.ValidateCanHaveWorker(false), s.String())
		} else {
			assert.NoError(t, s.ValidateCanHaveWorker(false), s.String())
			assert.Error(t, s.ValidateCanHaveWorker(true), s.String())
		}
	}
}

func TestPaymentStatus_Parse(t *testing.T) {
	for _, name := range []string{"pending", "paid", "failed", "refunded"} {
		p, err := order.ParsePaymentStatus(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}

	_, err := order.ParsePaymentStatus("captured")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := order.ParseRole("administrator")
	require.NoError(t, err)
	assert.Equal(t, order.RoleAdministrator, role)

	for _, name := range []string{"driver", "system"} {
		_, err = order.ParseRole(name)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid, name)
	}
}

func contains(list []order.Status, s order.Status) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
