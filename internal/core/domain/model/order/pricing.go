package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Pricing holds the amounts fixed when the order is finalized.
type Pricing struct {
	total     kernel.Money
	discount  kernel.Money
	tip       kernel.Money
	promoCode string
}

// NewPricing validates that the discount does not exceed the total and that a
// discount is only present together with a promo code.
func NewPricing(total, discount, tip kernel.Money, promoCode string) (Pricing, error) {
	code := strings.ToUpper(strings.TrimSpace(promoCode))
	if discount.GreaterThan(total) {
		return Pricing{}, errs.NewValueIsOutOfRangeError("discount_amount", discount.String(), "0.00", total.String())
	}
	if code == "" && !discount.IsZero() {
		return Pricing{}, errs.NewValueIsInvalidErrorWithCause(
			"discount_amount",
			fmt.Errorf("discount %s given without a promo code", discount),
		)
	}
	return Pricing{total: total, discount: discount, tip: tip, promoCode: code}, nil
}

func (p Pricing) Total() kernel.Money {
	return p.total
}

func (p Pricing) Discount() kernel.Money {
	return p.discount
}

func (p Pricing) Tip() kernel.Money {
	return p.tip
}

// PromoCode returns the normalized code, empty when none was applied.
func (p Pricing) PromoCode() string {
	return p.promoCode
}

// CapturedAmount is the amount actually charged for goods: total minus discount.
// It is the base the settlement is computed on.
func (p Pricing) CapturedAmount() kernel.Money {
	return p.total.Sub(p.discount)
}
