package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RedeemPromoCommandHandler records a redemption exactly once.
//
// The order must exist and carry the redeemed code, and the discount may not
// exceed what the code yields for the order total.
//
// The redemption insert and the usage increment share one transaction; the
// store's unique keys and conditional increment decide concurrent attempts:
//   - same order again: the stored redemption is returned
//   - same user on a single-use code: promo.ErrAlreadyUsed
//   - usage limit exhausted or code deactivated: promo.ErrLimitReached
//   - unknown code: errs.ObjectNotFoundError
type RedeemPromoCommandHandler struct {
	uowFactory CheckoutUoWFactory
}

func NewRedeemPromoCommandHandler(uowFactory CheckoutUoWFactory) RedeemPromoCommandHandler {
	return RedeemPromoCommandHandler{uowFactory: uowFactory}
}

func (h RedeemPromoCommandHandler) Handle(ctx context.Context, cmd RedeemPromoCommand) (*promo.Redemption, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	redemption, err := h.redeem(ctx, cmd)
	if errors.Is(err, ports.ErrOrderAlreadyRedeemed) {
		return h.existing(ctx, cmd)
	}
	return redemption, err
}

func (h RedeemPromoCommandHandler) redeem(ctx context.Context, cmd RedeemPromoCommand) (*promo.Redemption, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	promoRepo := uow.PromoCodeRepository()

	stored, err := promoRepo.FindRedemptionByOrder(ctx, cmd.OrderID())
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	code, err := promoRepo.GetByCode(ctx, cmd.Code())
	if err != nil {
		return nil, err
	}

	priced, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if priced.Pricing().PromoCode() != code.Code() {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"code",
			fmt.Errorf("order %s was not priced with %s", cmd.OrderID(), code.Code()),
		)
	}

	redemption, err := code.Redeem(cmd.UserID(), cmd.OrderID(), priced.Pricing().Total(), cmd.Discount(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = promoRepo.Redeem(ctx, code, redemption); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return redemption, nil
}

// existing reads the redemption that an earlier request stored for the order.
func (h RedeemPromoCommandHandler) existing(ctx context.Context, cmd RedeemPromoCommand) (*promo.Redemption, error) {
	uow := h.uowFactory.Create()
	return uow.PromoCodeRepository().FindRedemptionByOrder(ctx, cmd.OrderID())
}
