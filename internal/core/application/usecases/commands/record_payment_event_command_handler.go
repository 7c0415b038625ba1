package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/payout"
)

// RecordPaymentEventCommandHandler applies payment processor webhooks.
//
// Redelivered events whose target state already holds are acknowledged without
// a write. Out-of-order events that the state machine does not allow yield
// errs.StaleStateError.
type RecordPaymentEventCommandHandler struct {
	uowFactory FulfillmentUoWFactory
}

func NewRecordPaymentEventCommandHandler(uowFactory FulfillmentUoWFactory) RecordPaymentEventCommandHandler {
	return RecordPaymentEventCommandHandler{uowFactory: uowFactory}
}

// Handle reports whether the event changed any state.
func (h RecordPaymentEventCommandHandler) Handle(ctx context.Context, cmd RecordPaymentEventCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		applied bool
		err     error
	)
	switch cmd.EventType() {
	case OrderPaymentEvent:
		applied, err = h.applyOrderPayment(ctx, uow, cmd)
	case PayoutStatusEvent:
		applied, err = h.applyPayoutStatus(ctx, uow, cmd)
	}
	if err != nil || !applied {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}

func (h RecordPaymentEventCommandHandler) applyOrderPayment(
	ctx context.Context,
	uow FulfillmentUoW,
	cmd RecordPaymentEventCommand,
) (bool, error) {
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.TargetID())
	if err != nil {
		return false, err
	}

	from := o.PaymentStatus()
	changed, err := o.ApplyPaymentOutcome(cmd.PaymentStatus(), time.Now())
	if err != nil || !changed {
		return false, err
	}

	return true, orderRepo.UpdatePaymentStatus(ctx, o, from)
}

func (h RecordPaymentEventCommandHandler) applyPayoutStatus(
	ctx context.Context,
	uow FulfillmentUoW,
	cmd RecordPaymentEventCommand,
) (bool, error) {
	payoutRepo := uow.PayoutRepository()

	p, err := payoutRepo.Get(ctx, cmd.TargetID())
	if err != nil {
		return false, err
	}

	from := p.Status()
	now := time.Now()

	var changed bool
	switch cmd.PayoutStatus() {
	case payout.Processing:
		changed, err = p.MarkProcessing(now)
	case payout.Completed:
		changed, err = p.MarkCompleted(cmd.RailReference(), now)
	case payout.Failed:
		changed, err = p.MarkFailed(cmd.Reason(), now)
	default:
	}
	if err != nil || !changed {
		return false, err
	}

	return true, payoutRepo.ApplyStatus(ctx, p, from)
}
