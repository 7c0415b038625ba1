package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places every stored amount carries.
const MinorUnitPlaces int32 = 2

// Money is a non-negative amount in the order currency with exactly two
// minor-unit places. Arithmetic is exact; rounding only happens in Round.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns an amount of 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// NewMoney validates an amount coming from outside the domain. Negative amounts
// and amounts with more than two decimal places are rejected.
//
// Example:
//
//	total, err := kernel.NewMoney(decimal.RequireFromString("50.00"))
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", "unbounded")
	}
	if !amount.Equal(amount.Truncate(MinorUnitPlaces)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s has more than %d decimal places", amount, MinorUnitPlaces),
		)
	}
	return Money{amount: amount}, nil
}

// MoneyFromString parses a decimal string such as "12.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// RoundMoney rounds half-up to two places and clamps negatives to zero.
// It is the single rounding step applied to computed amounts.
func RoundMoney(amount decimal.Decimal) Money {
	rounded := amount.Round(MinorUnitPlaces)
	if rounded.IsNegative() {
		return ZeroMoney()
	}
	return Money{amount: rounded}
}

// Amount exposes the exact decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(MinorUnitPlaces)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other, floored at zero.
func (m Money) Sub(other Money) Money {
	diff := m.amount.Sub(other.amount)
	if diff.IsNegative() {
		return ZeroMoney()
	}
	return Money{amount: diff}
}

// Min returns the smaller of both amounts.
func (m Money) Min(other Money) Money {
	if other.amount.LessThan(m.amount) {
		return other
	}
	return m
}

// MarshalText renders the fixed two-place form.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
