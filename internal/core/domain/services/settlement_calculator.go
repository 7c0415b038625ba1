package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Rates are the configured settlement parameters.
type Rates struct {
	Platform   decimal.Decimal
	Worker     decimal.Decimal
	Processing decimal.Decimal
	FixedFee   decimal.Decimal
}

// DefaultRates returns the rates used when no configuration overrides them.
func DefaultRates() Rates {
	return Rates{
		Platform:   decimal.RequireFromString("0.15"),
		Worker:     decimal.RequireFromString("0.08"),
		Processing: decimal.RequireFromString("0.029"),
		FixedFee:   decimal.RequireFromString("0.30"),
	}
}

// Validate checks that every rate is within [0, 1] and the fixed fee is a
// non-negative amount.
func (r Rates) Validate() error {
	one := decimal.NewFromInt(1)
	check := func(name string, v decimal.Decimal) error {
		if v.IsNegative() || v.GreaterThan(one) {
			return errs.NewValueIsOutOfRangeError(name, v.String(), "0", "1")
		}
		return nil
	}

	var feeErr error
	if _, err := kernel.NewMoney(r.FixedFee); err != nil {
		feeErr = fmt.Errorf("fixed_fee: %w", err)
	}

	return errors.Join(
		check("platform_rate", r.Platform),
		check("worker_rate", r.Worker),
		check("processing_rate", r.Processing),
		feeErr,
	)
}

// Settlement is the financial split of one captured amount. RestaurantPayout
// may be negative when fees exceed a very small amount.
type Settlement struct {
	OrderAmount        kernel.Money
	PlatformCommission decimal.Decimal
	WorkerCommission   decimal.Decimal
	PaymentFee         decimal.Decimal
	RestaurantPayout   decimal.Decimal
	WorkerPayout       decimal.Decimal
}

// SettlementCalculator computes settlements. It is a pure function of its rates.
//
// Each term is computed exactly and rounded once, half-up to two places.
// RestaurantPayout is derived from the rounded terms, so
//
//	RestaurantPayout + PlatformCommission + PaymentFee == OrderAmount
//
// holds to the cent for every amount.
//
// Example:
//
//	calc, _ := services.NewSettlementCalculator(services.DefaultRates())
//	s := calc.Settle(kernel.RoundMoney(decimal.NewFromInt(50)), kernel.ZeroMoney())
//	// s.PlatformCommission = 7.50, s.PaymentFee = 1.75, s.RestaurantPayout = 40.75
type SettlementCalculator struct {
	rates Rates
}

// NewSettlementCalculator validates the rates once.
func NewSettlementCalculator(rates Rates) (SettlementCalculator, error) {
	if err := rates.Validate(); err != nil {
		return SettlementCalculator{}, err
	}
	return SettlementCalculator{rates: rates}, nil
}

// Settle splits orderAmount. The tip goes to the worker untouched.
func (c SettlementCalculator) Settle(orderAmount, tip kernel.Money) Settlement {
	amount := orderAmount.Amount()

	platform := amount.Mul(c.rates.Platform).Round(kernel.MinorUnitPlaces)
	worker := amount.Mul(c.rates.Worker).Round(kernel.MinorUnitPlaces)
	fee := amount.Mul(c.rates.Processing).Add(c.rates.FixedFee).Round(kernel.MinorUnitPlaces)

	return Settlement{
		OrderAmount:        orderAmount,
		PlatformCommission: platform,
		WorkerCommission:   worker,
		PaymentFee:         fee,
		RestaurantPayout:   amount.Sub(platform).Sub(fee),
		WorkerPayout:       worker.Add(tip.Amount()),
	}
}
