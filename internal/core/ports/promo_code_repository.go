package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/promo"
)

// ErrOrderAlreadyRedeemed is returned by Redeem when the order already holds a
// redemption. Callers roll back and return the stored redemption.
var ErrOrderAlreadyRedeemed = errors.New("order already has a redemption")

// PromoCodeRepository defines the persistence contract for promo codes and
// their redemptions.
type PromoCodeRepository interface {
	// Add persists a new code. A taken code yields errs.ObjectExistsError.
	Add(ctx context.Context, aggregate *promo.PromoCode) error

	// GetByCode looks a code up after normalization, or returns errs.ObjectNotFoundError.
	GetByCode(ctx context.Context, code string) (*promo.PromoCode, error)

	// HasRedemption reports whether the user already redeemed the code.
	HasRedemption(ctx context.Context, promoCodeID, userID kernel.UUID) (bool, error)

	// FindRedemptionByOrder returns the redemption stored for an order, or
	// errs.ObjectNotFoundError.
	FindRedemptionByOrder(ctx context.Context, orderID kernel.UUID) (*promo.Redemption, error)

	// Redeem inserts the redemption and increments the usage counter, both in
	// the current transaction.
	//
	// Errors:
	//   - ErrOrderAlreadyRedeemed when the order already holds a redemption
	//   - promo.ErrAlreadyUsed when the single-use key is taken
	//   - promo.ErrLimitReached when the conditional increment matched no row
	Redeem(ctx context.Context, aggregate *promo.PromoCode, redemption *promo.Redemption) error
}
