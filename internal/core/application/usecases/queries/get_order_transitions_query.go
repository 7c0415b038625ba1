package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderTransitionsQueryIsNotConstructed = errors.New(
		"GetOrderTransitionsQuery must be created via NewGetOrderTransitionsQuery constructor",
	)
)

// GetOrderTransitionsQuery returns the audit trail of one order in the order
// the transitions were applied.
type GetOrderTransitionsQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderTransitionsQuery(orderID kernel.UUID) (GetOrderTransitionsQuery, error) {
	q := GetOrderTransitionsQuery{guard: guard.NewConstructorGuard()}
	if err := requireID("order_id", &q.orderID, orderID); err != nil {
		return GetOrderTransitionsQuery{}, err
	}
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTransitionsQueryIsNotConstructed)
}

func (q GetOrderTransitionsQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderTransitionView is one audit row. ActorID is nil for the partner webhook.
type OrderTransitionView struct {
	ID         kernel.UUID
	FromStatus string
	ToStatus   string
	ActorID    *kernel.UUID
	ActorRole  string
	Reason     string
	OccurredAt time.Time
}
