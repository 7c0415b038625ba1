// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	PromoCodeRepoFactory interface {
		PromoCodeRepository() ports.PromoCodeRepository
	}

	PayoutRepoFactory interface {
		PayoutRepository() ports.PayoutRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PromoUoW manages transactions for promo codes and redemptions.
	PromoUoW interface {
		TxManager
		PromoCodeRepoFactory
	}

	PromoUoWFactory interface {
		Create() PromoUoW
	}

	// CheckoutUoW spans orders and promo codes. Used where an order is priced
	// against a code and where a redemption is checked against its order.
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		PromoCodeRepoFactory
	}

	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// PayoutUoW manages transactions for payout-only operations.
	PayoutUoW interface {
		TxManager
		PayoutRepoFactory
	}

	PayoutUoWFactory interface {
		Create() PayoutUoW
	}

	// FulfillmentUoW spans orders and payouts. Used where a delivered order
	// records its payouts, and where payment webhooks touch either aggregate.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   payoutRepo := uow.PayoutRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		PayoutRepoFactory
	}

	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}
)
