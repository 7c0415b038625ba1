package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrSettleOrderQueryIsNotConstructed = errors.New(
		"SettleOrderQuery must be created via NewSettleOrderQuery constructor",
	)
)

// SettleOrderQuery computes the financial split of a delivered order.
type SettleOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSettleOrderQuery(orderID kernel.UUID) (SettleOrderQuery, error) {
	q := SettleOrderQuery{guard: guard.NewConstructorGuard()}
	if err := requireID("order_id", &q.orderID, orderID); err != nil {
		return SettleOrderQuery{}, err
	}
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q SettleOrderQuery) Validate() error {
	return q.guard.Validate(ErrSettleOrderQueryIsNotConstructed)
}

func (q SettleOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}
