package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/pkg/guard"
)

var ErrCreatePromoCodeCommandIsNotConstructed = errors.New(
	"CreatePromoCodeCommand must be created via NewCreatePromoCodeCommand constructor",
)

// CreatePromoCodeCommand defines a new discount code. The definition itself is
// validated by the promo aggregate.
type CreatePromoCodeCommand struct { //nolint:recvcheck //using for validation
	promoCodeID kernel.UUID
	definition  promo.Definition

	guard guard.ConstructorGuard
}

func NewCreatePromoCodeCommand(promoCodeID kernel.UUID, definition promo.Definition) (CreatePromoCodeCommand, error) {
	cmd := CreatePromoCodeCommand{
		definition: definition,
		guard:      guard.NewConstructorGuard(),
	}

	if err := requireID("promo_code_id", &cmd.promoCodeID, promoCodeID); err != nil {
		return CreatePromoCodeCommand{}, err
	}

	return cmd, nil
}

func (c CreatePromoCodeCommand) Validate() error {
	return c.guard.Validate(ErrCreatePromoCodeCommandIsNotConstructed)
}

func (c CreatePromoCodeCommand) PromoCodeID() kernel.UUID {
	return c.promoCodeID
}

func (c CreatePromoCodeCommand) Definition() promo.Definition {
	return c.definition
}
