package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrValidatePromoQueryIsNotConstructed = errors.New(
		"ValidatePromoQuery must be created via NewValidatePromoQuery constructor",
	)
)

// ValidatePromoQuery asks whether a code applies to an order and for how much.
// It never consumes a use; see commands.RedeemPromoCommand for that.
type ValidatePromoQuery struct { //nolint:recvcheck //using for validation
	code         string
	orderAmount  kernel.Money
	restaurantID kernel.UUID
	userID       kernel.UUID
	categoryIDs  []kernel.UUID

	guard guard.ConstructorGuard
}

// NewValidatePromoQuery normalizes the code. categoryIDs may be empty.
func NewValidatePromoQuery(
	code string,
	orderAmount kernel.Money,
	restaurantID, userID kernel.UUID,
	categoryIDs []kernel.UUID,
) (ValidatePromoQuery, error) {
	q := ValidatePromoQuery{
		code:        promo.NormalizeCode(code),
		orderAmount: orderAmount,
		categoryIDs: append([]kernel.UUID(nil), categoryIDs...),
		guard:       guard.NewConstructorGuard(),
	}

	var codeErr error
	if q.code == "" {
		codeErr = errs.NewValueIsRequiredError("code")
	}

	if err := errors.Join(
		codeErr,
		requireID("restaurant_id", &q.restaurantID, restaurantID),
		requireID("user_id", &q.userID, userID),
	); err != nil {
		return ValidatePromoQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ValidatePromoQuery) Validate() error {
	return q.guard.Validate(ErrValidatePromoQueryIsNotConstructed)
}

func (q ValidatePromoQuery) Code() string               { return q.code }
func (q ValidatePromoQuery) OrderAmount() kernel.Money  { return q.orderAmount }
func (q ValidatePromoQuery) RestaurantID() kernel.UUID  { return q.restaurantID }
func (q ValidatePromoQuery) UserID() kernel.UUID        { return q.userID }
func (q ValidatePromoQuery) CategoryIDs() []kernel.UUID { return q.categoryIDs }

// PromoValidation is the answer to ValidatePromoQuery. Reason is empty when Valid.
type PromoValidation struct {
	Valid          bool
	DiscountAmount kernel.Money
	Reason         promo.Reason
}
