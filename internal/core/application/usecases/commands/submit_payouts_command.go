package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxSubmitBatchSize = 500

var ErrSubmitPayoutsCommandIsNotConstructed = errors.New(
	"SubmitPayoutsCommand must be created via NewSubmitPayoutsCommand constructor",
)

// SubmitPayoutsCommand hands up to BatchSize pending payouts to the payment rail.
type SubmitPayoutsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewSubmitPayoutsCommand(batchSize int) (SubmitPayoutsCommand, error) {
	if batchSize < 1 || batchSize > maxSubmitBatchSize {
		return SubmitPayoutsCommand{}, errs.NewValueIsOutOfRangeError("batch_size", batchSize, 1, maxSubmitBatchSize)
	}

	return SubmitPayoutsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitPayoutsCommand) Validate() error {
	return c.guard.Validate(ErrSubmitPayoutsCommandIsNotConstructed)
}

func (c SubmitPayoutsCommand) BatchSize() int {
	return c.batchSize
}
