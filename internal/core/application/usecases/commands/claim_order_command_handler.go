package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
)

// ClaimOrderCommandHandler resolves concurrent claims on the same order.
//
// The in-memory check only rejects claims that are already lost; the winner is
// decided by the repository's conditional write, so two claims racing past the
// read still produce exactly one assignment.
//
// Example:
//
//	cmd, _ := NewClaimOrderCommand(orderID, workerID)
//	claimed, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrAlreadyClaimed):
//	    // another worker won, or the order was cancelled meanwhile
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown order id
//	}
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewClaimOrderCommandHandler(uowFactory OrderUoWFactory) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{uowFactory: uowFactory}
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
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

	claimed, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	transition, err := claimed.Assign(cmd.WorkerID(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.ApplyTransition(ctx, claimed, transition); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return claimed, nil
}
