package services

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/pkg/errs"
)

const (
	restaurantPayoutName = "payout:restaurant"
	workerPayoutName     = "payout:worker"
)

// ErrOrderNotDelivered is returned when payouts are planned for an order that
// has not reached delivered.
var ErrOrderNotDelivered = errors.New("order is not delivered")

// PayoutPlanner decides which payouts a delivered order owes.
//
// Payout ids are derived from the order id, so planning the same order twice
// yields the same ids and the payout store deduplicates them. Amounts that are
// zero or negative after settlement produce no payout.
type PayoutPlanner struct {
	currency string
}

func NewPayoutPlanner(currency string) PayoutPlanner {
	return PayoutPlanner{currency: currency}
}

// RestaurantPayoutID returns the deterministic id of an order's restaurant payout.
func RestaurantPayoutID(orderID kernel.UUID) kernel.UUID {
	return kernel.NewNameBasedUUID(orderID, restaurantPayoutName)
}

// WorkerPayoutID returns the deterministic id of an order's worker payout.
func WorkerPayoutID(orderID kernel.UUID) kernel.UUID {
	return kernel.NewNameBasedUUID(orderID, workerPayoutName)
}

// Plan builds pending payouts from a settlement of a delivered order.
func (p PayoutPlanner) Plan(o *order.Order, s Settlement, now time.Time) ([]*payout.Payout, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Delivered || o.Worker() == nil {
		return nil, errs.NewStaleStateErrorWithCause("order", o.ID().String(), order.Delivered.String(), ErrOrderNotDelivered)
	}

	orderID := o.ID()
	planned := make([]*payout.Payout, 0, 2)

	candidates := []struct {
		id            kernel.UUID
		recipientID   kernel.UUID
		recipientType payout.RecipientType
		amount        kernel.Money
		positive      bool
	}{
		{
			id:            RestaurantPayoutID(orderID),
			recipientID:   o.RestaurantID(),
			recipientType: payout.RecipientRestaurant,
			amount:        kernel.RoundMoney(s.RestaurantPayout),
			positive:      s.RestaurantPayout.IsPositive(),
		},
		{
			id:            WorkerPayoutID(orderID),
			recipientID:   *o.Worker(),
			recipientType: payout.RecipientWorker,
			amount:        kernel.RoundMoney(s.WorkerPayout),
			positive:      s.WorkerPayout.IsPositive(),
		},
	}

	for _, c := range candidates {
		if !c.positive {
			continue
		}
		po, err := payout.NewPayout(c.id, c.recipientID, c.recipientType, c.amount, p.currency, &orderID, now)
		if err != nil {
			return nil, err
		}
		planned = append(planned, po)
	}

	return planned, nil
}
