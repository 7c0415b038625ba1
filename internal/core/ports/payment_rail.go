package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payout"
)

// PayoutInstruction is what the payment rail needs to move money.
type PayoutInstruction struct {
	PayoutID      kernel.UUID
	RecipientID   kernel.UUID
	RecipientType payout.RecipientType
	Amount        kernel.Money
	Currency      string
}

// PaymentRail submits transfers to the external payment processor. The payout
// id is sent as idempotency key, so resubmission never moves money twice.
type PaymentRail interface {
	// SubmitPayout returns the rail's reference for the transfer.
	SubmitPayout(ctx context.Context, instruction PayoutInstruction) (string, error)
}
