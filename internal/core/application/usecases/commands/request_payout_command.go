package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestPayoutCommandIsNotConstructed = errors.New(
	"RequestPayoutCommand must be created via NewRequestPayoutCommand constructor",
)

// RequestPayoutCommand asks for a transfer identified by a caller-chosen payout id.
type RequestPayoutCommand struct { //nolint:recvcheck //using for validation
	payoutID      kernel.UUID
	recipientID   kernel.UUID
	recipientType payout.RecipientType
	amount        kernel.Money
	currency      string
	orderID       *kernel.UUID

	guard guard.ConstructorGuard
}

// NewRequestPayoutCommand checks identifiers only; amount, currency and
// recipient type are validated by the payout aggregate.
func NewRequestPayoutCommand(
	payoutID, recipientID kernel.UUID,
	recipientType payout.RecipientType,
	amount kernel.Money,
	currency string,
	orderID *kernel.UUID,
) (RequestPayoutCommand, error) {
	cmd := RequestPayoutCommand{
		recipientType: recipientType,
		amount:        amount,
		currency:      currency,
		orderID:       orderID,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("payout_id", &cmd.payoutID, payoutID),
		requireID("recipient_id", &cmd.recipientID, recipientID),
	); err != nil {
		return RequestPayoutCommand{}, err
	}

	return cmd, nil
}

func (c RequestPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRequestPayoutCommandIsNotConstructed)
}

func (c RequestPayoutCommand) PayoutID() kernel.UUID               { return c.payoutID }
func (c RequestPayoutCommand) RecipientID() kernel.UUID            { return c.recipientID }
func (c RequestPayoutCommand) RecipientType() payout.RecipientType { return c.recipientType }
func (c RequestPayoutCommand) Amount() kernel.Money                { return c.amount }
func (c RequestPayoutCommand) Currency() string                    { return c.currency }
func (c RequestPayoutCommand) OrderID() *kernel.UUID               { return c.orderID }
