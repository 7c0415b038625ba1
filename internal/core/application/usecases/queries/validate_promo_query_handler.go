package queries

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/pkg/errs"
)

// ValidatePromoQueryHandler evaluates a code against an order without writing.
// A rejected code is a normal answer, not an error.
type ValidatePromoQueryHandler struct {
	codes PromoCodeReader
}

func NewValidatePromoQueryHandler(codes PromoCodeReader) ValidatePromoQueryHandler {
	return ValidatePromoQueryHandler{codes: codes}
}

func (h ValidatePromoQueryHandler) Handle(ctx context.Context, query ValidatePromoQuery) (PromoValidation, error) {
	if err := query.Validate(); err != nil {
		return PromoValidation{}, err
	}

	code, err := h.codes.GetByCode(ctx, query.Code())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return PromoValidation{Reason: promo.ReasonNotFound}, nil
		}
		return PromoValidation{}, err
	}

	usedByUser := false
	if code.IsSingleUse() {
		if usedByUser, err = h.codes.HasRedemption(ctx, code.ID(), query.UserID()); err != nil {
			return PromoValidation{}, err
		}
	}

	result := code.Evaluate(query.OrderAmount(), query.RestaurantID(), query.CategoryIDs(), usedByUser, time.Now())
	return PromoValidation{
		Valid:          result.Valid,
		DiscountAmount: result.Discount,
		Reason:         result.Reason,
	}, nil
}
