// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read-side views of the repositories, narrowed to what each handler touches.
type (
	OrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	}

	PromoCodeReader interface {
		GetByCode(ctx context.Context, code string) (*promo.PromoCode, error)
		HasRedemption(ctx context.Context, promoCodeID, userID kernel.UUID) (bool, error)
	}
)

func requireID(param string, dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	*dst = id
	return nil
}

func scanID(dst *kernel.UUID, raw uuid.UUID) error {
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return err
	}
	*dst = id
	return nil
}
