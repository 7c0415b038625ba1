package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// SettleOrderQueryHandler recomputes the settlement of a delivered order from
// its captured amount and tip. Other statuses are rejected with
// errs.StaleStateError.
type SettleOrderQueryHandler struct {
	orders     OrderReader
	calculator services.SettlementCalculator
}

func NewSettleOrderQueryHandler(orders OrderReader, calculator services.SettlementCalculator) SettleOrderQueryHandler {
	return SettleOrderQueryHandler{
		orders:     orders,
		calculator: calculator,
	}
}

func (h SettleOrderQueryHandler) Handle(ctx context.Context, query SettleOrderQuery) (services.Settlement, error) {
	if err := query.Validate(); err != nil {
		return services.Settlement{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return services.Settlement{}, err
	}

	if o.Status() != order.Delivered {
		return services.Settlement{}, errs.NewStaleStateError("order", o.ID().String(), order.Delivered.String())
	}

	pricing := o.Pricing()
	return h.calculator.Settle(pricing.CapturedAmount(), pricing.Tip()), nil
}
