package promo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Redemption is the append-only fact that a code was used for an order.
// An order holds at most one redemption.
type Redemption struct {
	id             kernel.UUID
	promoCodeID    kernel.UUID
	userID         kernel.UUID
	orderID        kernel.UUID
	discountAmount kernel.Money
	usedAt         time.Time
	singleUseKey   *kernel.UUID
}

func newRedemption(p *PromoCode, userID, orderID kernel.UUID, discount kernel.Money, at time.Time) (*Redemption, error) {
	if err := userID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("user_id", err)
	}
	if err := orderID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}

	r := &Redemption{
		id:             kernel.NewUUID(),
		promoCodeID:    p.id,
		userID:         userID,
		orderID:        orderID,
		discountAmount: discount,
		usedAt:         at.UTC(),
	}
	if p.IsSingleUse() {
		key := userID
		r.singleUseKey = &key
	}
	return r, nil
}

// RestoreRedemption rebuilds a stored redemption.
func RestoreRedemption(
	id, promoCodeID, userID, orderID kernel.UUID,
	discount kernel.Money,
	usedAt time.Time,
	singleUseKey *kernel.UUID,
) *Redemption {
	return &Redemption{
		id:             id,
		promoCodeID:    promoCodeID,
		userID:         userID,
		orderID:        orderID,
		discountAmount: discount,
		usedAt:         usedAt,
		singleUseKey:   singleUseKey,
	}
}

func (r *Redemption) ID() kernel.UUID              { return r.id }
func (r *Redemption) PromoCodeID() kernel.UUID     { return r.promoCodeID }
func (r *Redemption) UserID() kernel.UUID          { return r.userID }
func (r *Redemption) OrderID() kernel.UUID         { return r.orderID }
func (r *Redemption) DiscountAmount() kernel.Money { return r.discountAmount }
func (r *Redemption) UsedAt() time.Time            { return r.usedAt }

// SingleUseKey is the user id for single-use codes and nil otherwise. The store
// keeps (promo code, single use key) unique.
func (r *Redemption) SingleUseKey() *kernel.UUID { return r.singleUseKey }

// Redeemed is raised when a redemption is recorded.
type Redeemed struct {
	ID             kernel.UUID  `json:"event_id"`
	PromoCodeID    kernel.UUID  `json:"promo_code_id"`
	Code           string       `json:"code"`
	UserID         kernel.UUID  `json:"user_id"`
	OrderID        kernel.UUID  `json:"order_id"`
	DiscountAmount kernel.Money `json:"discount_amount"`
	At             time.Time    `json:"occurred_at"`
}

func (e Redeemed) EventID() kernel.UUID     { return e.ID }
func (e Redeemed) EventName() string        { return "promo.redeemed" }
func (e Redeemed) AggregateID() kernel.UUID { return e.PromoCodeID }
func (e Redeemed) OccurredAt() time.Time    { return e.At }
