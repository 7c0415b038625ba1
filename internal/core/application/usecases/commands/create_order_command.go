package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a finalized order in pending status.
// Amounts are fixed here and never change afterwards. Category ids describe the
// ordered items and only serve promo scope checks.
//
// Example:
//
//	pricing, _ := order.NewPricing(total, discount, tip, "SAVE10")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, restaurantID, pricing)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID
	pricing      order.Pricing
	categoryIDs  []kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID, customerID, restaurantID kernel.UUID,
	pricing order.Pricing,
	categoryIDs ...kernel.UUID,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		pricing: pricing,
		guard:   guard.NewConstructorGuard(),
	}

	problems := []error{
		requireID("order_id", &cmd.orderID, orderID),
		requireID("customer_id", &cmd.customerID, customerID),
		requireID("restaurant_id", &cmd.restaurantID, restaurantID),
	}
	for _, id := range categoryIDs {
		if err := id.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("category_ids", err))
			break
		}
	}
	cmd.categoryIDs = categoryIDs
	if err := errors.Join(problems...); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateOrderCommand) Pricing() order.Pricing {
	return c.pricing
}

func (c CreateOrderCommand) CategoryIDs() []kernel.UUID {
	return c.categoryIDs
}

// requireID copies a validated identifier into a command field.
func requireID(param string, dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	*dst = id
	return nil
}
