// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the unit of work, the event publisher and the
// payment rail.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Status changes are never blind updates: every write is conditional on the
// status the aggregate was read in.
type OrderRepository interface {
	// Add persists a new order. An existing id yields errs.ObjectExistsError.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id or returns errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ApplyTransition writes the aggregate's new status with a single conditional
	// update guarded by transition.From, and appends the audit row in the same
	// transaction.
	//
	// When no row matches:
	//   - order.ErrAlreadyClaimed if transition.To is assigned
	//   - errs.StaleStateError otherwise
	ApplyTransition(ctx context.Context, aggregate *order.Order, transition order.Transition) error

	// UpdatePaymentStatus writes the payment status guarded by from.
	// No matching row yields errs.StaleStateError.
	UpdatePaymentStatus(ctx context.Context, aggregate *order.Order, from order.PaymentStatus) error
}
