package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRedeemPromoCommandIsNotConstructed = errors.New(
	"RedeemPromoCommand must be created via NewRedeemPromoCommand constructor",
)

// RedeemPromoCommand consumes one use of a code for an order.
type RedeemPromoCommand struct { //nolint:recvcheck //using for validation
	code     string
	orderID  kernel.UUID
	userID   kernel.UUID
	discount kernel.Money

	guard guard.ConstructorGuard
}

func NewRedeemPromoCommand(code string, orderID, userID kernel.UUID, discount kernel.Money) (RedeemPromoCommand, error) {
	cmd := RedeemPromoCommand{
		code:     promo.NormalizeCode(code),
		discount: discount,
		guard:    guard.NewConstructorGuard(),
	}

	var codeErr error
	if cmd.code == "" {
		codeErr = errs.NewValueIsRequiredError("code")
	}

	if err := errors.Join(
		codeErr,
		requireID("order_id", &cmd.orderID, orderID),
		requireID("user_id", &cmd.userID, userID),
	); err != nil {
		return RedeemPromoCommand{}, err
	}

	return cmd, nil
}

func (c RedeemPromoCommand) Validate() error {
	return c.guard.Validate(ErrRedeemPromoCommandIsNotConstructed)
}

func (c RedeemPromoCommand) Code() string {
	return c.code
}

func (c RedeemPromoCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RedeemPromoCommand) UserID() kernel.UUID {
	return c.userID
}

func (c RedeemPromoCommand) Discount() kernel.Money {
	return c.discount
}
