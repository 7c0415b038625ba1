package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderCommandHandler persists new orders.
type CreateOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory CheckoutUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the order in pending status. An order carrying a promo code
// is priced against it first: the code must pass evaluation for the order and
// the discount may not exceed what the code yields. A reused order id yields
// errs.ObjectExistsError from the repository.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := order.NewOrder(cmd.OrderID(), cmd.CustomerID(), cmd.RestaurantID(), cmd.Pricing(), now)
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

	if cmd.Pricing().PromoCode() != "" {
		if err = checkPricing(ctx, uow.PromoCodeRepository(), cmd, now); err != nil {
			return nil, err
		}
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

func checkPricing(ctx context.Context, codes ports.PromoCodeRepository, cmd CreateOrderCommand, now time.Time) error {
	pricing := cmd.Pricing()

	code, err := codes.GetByCode(ctx, pricing.PromoCode())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return rejectedCode(pricing.PromoCode(), promo.ReasonNotFound)
	}
	if err != nil {
		return err
	}

	usedByUser := false
	if code.IsSingleUse() {
		if usedByUser, err = codes.HasRedemption(ctx, code.ID(), cmd.CustomerID()); err != nil {
			return err
		}
	}

	result := code.Evaluate(pricing.Total(), cmd.RestaurantID(), cmd.CategoryIDs(), usedByUser, now)
	if !result.Valid {
		return rejectedCode(code.Code(), result.Reason)
	}
	return code.CheckDiscount(pricing.Total(), pricing.Discount())
}

func rejectedCode(code string, reason promo.Reason) error {
	return errs.NewValueIsInvalidErrorWithCause("promo_code", fmt.Errorf("%s rejected: %s", code, reason))
}
