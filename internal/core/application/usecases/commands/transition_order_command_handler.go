package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

// TransitionOrderCommandHandler applies worker, restaurant, customer,
// administrator and partner driven status changes.
//
// On delivered it settles the captured amount and records the restaurant and
// worker payouts in the same transaction as the status change. Payout ids are
// derived from the order id, so a retried delivery cannot pay twice.
type TransitionOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	calculator services.SettlementCalculator
	planner    services.PayoutPlanner
}

func NewTransitionOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	calculator services.SettlementCalculator,
	planner services.PayoutPlanner,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		planner:    planner,
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	current, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if cmd.Replayable() && current.Status() == cmd.To() {
		return current, nil
	}

	now := time.Now()
	transition, err := current.Transition(cmd.To(), cmd.Actor(), cmd.Reason(), now)
	if err != nil {
		return nil, err
	}

	if err = orderRepo.ApplyTransition(ctx, current, transition); err != nil {
		return nil, err
	}

	if transition.To == order.Delivered {
		if err = h.recordPayouts(ctx, uow, current, now); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return current, nil
}

func (h TransitionOrderCommandHandler) recordPayouts(
	ctx context.Context,
	uow FulfillmentUoW,
	delivered *order.Order,
	now time.Time,
) error {
	settlement := h.calculator.Settle(delivered.Pricing().CapturedAmount(), delivered.Pricing().Tip())

	planned, err := h.planner.Plan(delivered, settlement, now)
	if err != nil {
		return err
	}

	payoutRepo := uow.PayoutRepository()
	for _, p := range planned {
		if _, _, err = payoutRepo.AddIfAbsent(ctx, p); err != nil {
			return err
		}
	}

	return nil
}
