package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/promo"
)

// CreatePromoCodeCommandHandler persists new promo codes. A taken code yields
// errs.ObjectExistsError.
type CreatePromoCodeCommandHandler struct {
	uowFactory PromoUoWFactory
}

func NewCreatePromoCodeCommandHandler(uowFactory PromoUoWFactory) CreatePromoCodeCommandHandler {
	return CreatePromoCodeCommandHandler{uowFactory: uowFactory}
}

func (h CreatePromoCodeCommandHandler) Handle(ctx context.Context, cmd CreatePromoCodeCommand) (*promo.PromoCode, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	code, err := promo.NewPromoCode(cmd.PromoCodeID(), cmd.Definition(), time.Now())
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

	if err = uow.PromoCodeRepository().Add(ctx, code); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return code, nil
}
