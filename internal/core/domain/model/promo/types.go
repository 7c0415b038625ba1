package promo

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// DiscountType selects how the discount value is applied.
type DiscountType int

const (
	DiscountUnknown DiscountType = iota
	// Percentage discounts take value percent of the order amount.
	Percentage
	// Fixed discounts take value as an absolute amount.
	Fixed
)

func getDiscountTypeStrings() map[DiscountType]string {
	return map[DiscountType]string{
		Percentage: "percentage",
		Fixed:      "fixed",
	}
}

func ParseDiscountType(s string) (DiscountType, error) {
	for t, name := range getDiscountTypeStrings() {
		if name == s {
			return t, nil
		}
	}
	return DiscountUnknown, errs.NewValueIsInvalidErrorWithCause(
		"discount_type",
		fmt.Errorf("%q is not percentage or fixed", s),
	)
}

func (t DiscountType) String() string {
	if str, ok := getDiscountTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Scope restricts where a code applies.
type Scope int

const (
	ScopeUnknown Scope = iota
	ScopeAll
	// ScopeRestaurant applies to orders of a single restaurant.
	ScopeRestaurant
	// ScopeCategory applies to orders containing an item of a single category.
	ScopeCategory
)

func getScopeStrings() map[Scope]string {
	return map[Scope]string{
		ScopeAll:        "all",
		ScopeRestaurant: "restaurant",
		ScopeCategory:   "category",
	}
}

func ParseScope(s string) (Scope, error) {
	for scope, name := range getScopeStrings() {
		if name == s {
			return scope, nil
		}
	}
	return ScopeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"applicable_scope",
		fmt.Errorf("%q is not all, restaurant or category", s),
	)
}

func (s Scope) String() string {
	if str, ok := getScopeStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Reason explains why a code is not applicable to an order.
type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonInactive          Reason = "inactive"
	ReasonExpired           Reason = "expired"
	ReasonUsageLimitReached Reason = "usage_limit_reached"
	ReasonBelowMinimum      Reason = "below_minimum"
	ReasonScopeMismatch     Reason = "scope_mismatch"
	ReasonAlreadyUsed       Reason = "already_used"
)
