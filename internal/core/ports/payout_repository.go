package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
)

// PayoutRepository defines the persistence contract for payouts.
type PayoutRepository interface {
	// AddIfAbsent inserts the payout unless its id exists, then returns the
	// stored row. created is false when an earlier request won.
	AddIfAbsent(ctx context.Context, aggregate *payout.Payout) (stored *payout.Payout, created bool, err error)

	// Get retrieves a payout by id or returns errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error)

	// ApplyStatus writes the aggregate's status guarded by from.
	// No matching row yields errs.StaleStateError.
	ApplyStatus(ctx context.Context, aggregate *payout.Payout, from payout.Status) error

	// ListPending returns up to limit pending payouts, oldest first.
	ListPending(ctx context.Context, limit int) ([]*payout.Payout, error)
}
