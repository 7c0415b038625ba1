package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/payout"
)

// RequestPayoutCommandHandler records payouts idempotently by payout id. A
// repeated request returns the stored payout unchanged, whatever payload it carries.
type RequestPayoutCommandHandler struct {
	uowFactory PayoutUoWFactory
}

func NewRequestPayoutCommandHandler(uowFactory PayoutUoWFactory) RequestPayoutCommandHandler {
	return RequestPayoutCommandHandler{uowFactory: uowFactory}
}

func (h RequestPayoutCommandHandler) Handle(ctx context.Context, cmd RequestPayoutCommand) (*payout.Payout, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	requested, err := payout.NewPayout(
		cmd.PayoutID(),
		cmd.RecipientID(),
		cmd.RecipientType(),
		cmd.Amount(),
		cmd.Currency(),
		cmd.OrderID(),
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, _, err := uow.PayoutRepository().AddIfAbsent(ctx, requested)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return stored, nil
}
