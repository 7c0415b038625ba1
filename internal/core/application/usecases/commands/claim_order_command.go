package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand is a worker's attempt to take a ready_for_pickup order.
type ClaimOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	workerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewClaimOrderCommand(orderID, workerID kernel.UUID) (ClaimOrderCommand, error) {
	cmd := ClaimOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		requireID("order_id", &cmd.orderID, orderID),
		requireID("worker_id", &cmd.workerID, workerID),
	); err != nil {
		return ClaimOrderCommand{}, err
	}

	return cmd, nil
}

func (c ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

func (c ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ClaimOrderCommand) WorkerID() kernel.UUID {
	return c.workerID
}
