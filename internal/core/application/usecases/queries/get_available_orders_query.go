package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultAvailableOrdersLimit = 50
	maxAvailableOrdersLimit     = 500
)

var (
	ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
		"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
	)
)

// GetAvailableOrdersQuery lists ready_for_pickup orders that workers can claim,
// oldest first.
//
// Example:
//
//	query, err := NewGetAvailableOrdersQuery(20)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetAvailableOrdersQuery struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery accepts a limit in [1, 500]; 0 selects the default.
func NewGetAvailableOrdersQuery(limit int) (GetAvailableOrdersQuery, error) {
	if limit == 0 {
		limit = DefaultAvailableOrdersLimit
	}
	if limit < 1 || limit > maxAvailableOrdersLimit {
		return GetAvailableOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxAvailableOrdersLimit)
	}

	return GetAvailableOrdersQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

func (q GetAvailableOrdersQuery) Limit() int {
	return q.limit
}

// AvailableOrder is the read model of a claimable order.
type AvailableOrder struct {
	ID             kernel.UUID
	CustomerID     kernel.UUID
	RestaurantID   kernel.UUID
	TotalAmount    kernel.Money
	DiscountAmount kernel.Money
	TipAmount      kernel.Money
	PromoCode      string
	CreatedAt      time.Time
}
