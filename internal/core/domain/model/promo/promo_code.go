package promo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrPromoCodeIsNotConstructed = errors.New("PromoCode must be created via NewPromoCode or RestorePromoCode")

	// ErrAlreadyUsed is returned when a single-use code was already redeemed by the user.
	ErrAlreadyUsed = errors.New("promo code already used")

	// ErrLimitReached is returned when the global usage limit is exhausted or the
	// code was deactivated before the redemption was written.
	ErrLimitReached = errors.New("promo code usage limit reached")
)

const maxCodeLength = 64

var hundred = decimal.NewFromInt(100)

// Definition holds the administrator-defined terms of a code.
type Definition struct {
	Code              string
	DiscountType      DiscountType
	DiscountValue     decimal.Decimal
	MinOrderAmount    kernel.Money
	MaxDiscountAmount *kernel.Money
	// UsageLimit bounds redemptions across all users; nil means unlimited.
	UsageLimit *int
	// PerUserLimit is 0 for unlimited or 1 for single use per user.
	PerUserLimit  int
	ExpiresAt     *time.Time
	IsActive      bool
	Scope         Scope
	ScopeTargetID *kernel.UUID
}

// PromoCode is the aggregate root for a discount code. currentUsage only grows.
type PromoCode struct {
	kernel.EventRecorder

	id           kernel.UUID
	def          Definition
	currentUsage int
	createdAt    time.Time

	guard guard.ConstructorGuard
}

// Evaluation is the outcome of checking a code against an order.
type Evaluation struct {
	Valid    bool
	Discount kernel.Money
	Reason   Reason
}

func rejected(reason Reason) Evaluation {
	return Evaluation{Reason: reason}
}

// NormalizeCode trims and upper-cases a code as entered by a user.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewPromoCode validates a definition and creates an unused code.
//
// Validation rules:
//   - code is non-empty after normalization and at most 64 characters
//   - percentage values are in (0, 100], fixed values are positive with two places at most
//   - usage limit, when set, is positive; per-user limit is 0 or 1
//   - restaurant and category scopes carry a target id, scope all carries none
func NewPromoCode(id kernel.UUID, def Definition, createdAt time.Time) (*PromoCode, error) {
	p := &PromoCode{
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	def.Code = NormalizeCode(def.Code)
	if err := errors.Join(p.setID(id), validateDefinition(def)); err != nil {
		return nil, err
	}
	p.def = def
	return p, nil
}

// RestorePromoCode rebuilds a code from persistence.
func RestorePromoCode(id kernel.UUID, def Definition, currentUsage int, createdAt time.Time) (*PromoCode, error) {
	p := &PromoCode{
		def:       def,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := p.setID(id); err != nil {
		return nil, err
	}
	if currentUsage < 0 {
		return nil, errs.NewValueIsOutOfRangeError("current_usage", currentUsage, 0, "unbounded")
	}
	p.currentUsage = currentUsage
	return p, nil
}

func (p *PromoCode) Validate() error {
	if p == nil {
		return ErrPromoCodeIsNotConstructed
	}
	return p.guard.Validate(ErrPromoCodeIsNotConstructed)
}

func (p *PromoCode) ID() kernel.UUID {
	return p.id
}

func (p *PromoCode) Code() string {
	return p.def.Code
}

// Definition returns a copy of the terms.
func (p *PromoCode) Definition() Definition {
	return p.def
}

func (p *PromoCode) CurrentUsage() int {
	return p.currentUsage
}

func (p *PromoCode) CreatedAt() time.Time {
	return p.createdAt
}

// IsSingleUse reports whether each user may redeem the code once.
func (p *PromoCode) IsSingleUse() bool {
	return p.def.PerUserLimit == 1
}

// Evaluate checks the code against an order. Checks run in a fixed order and
// the first failing one determines the reason: active, not expired, usage
// below limit, minimum amount, scope, single use per user.
//
// usedByUser tells whether the user already holds a redemption of this code;
// it only matters for single-use codes.
func (p *PromoCode) Evaluate(
	orderAmount kernel.Money,
	restaurantID kernel.UUID,
	categoryIDs []kernel.UUID,
	usedByUser bool,
	now time.Time,
) Evaluation {
	switch {
	case !p.def.IsActive:
		return rejected(ReasonInactive)
	case p.isExpired(now):
		return rejected(ReasonExpired)
	case p.isExhausted():
		return rejected(ReasonUsageLimitReached)
	case orderAmount.LessThan(p.def.MinOrderAmount):
		return rejected(ReasonBelowMinimum)
	case !p.matchesScope(restaurantID, categoryIDs):
		return rejected(ReasonScopeMismatch)
	case p.IsSingleUse() && usedByUser:
		return rejected(ReasonAlreadyUsed)
	}

	return Evaluation{Valid: true, Discount: p.Discount(orderAmount)}
}

// Discount computes the discount for an amount: percentage or fixed value,
// capped by the maximum discount and then by the amount itself, rounded once.
func (p *PromoCode) Discount(orderAmount kernel.Money) kernel.Money {
	var raw decimal.Decimal
	switch p.def.DiscountType {
	case Percentage:
		raw = orderAmount.Amount().Mul(p.def.DiscountValue).Div(hundred)
	case Fixed:
		raw = p.def.DiscountValue
	default:
		return kernel.ZeroMoney()
	}

	if p.def.MaxDiscountAmount != nil {
		raw = decimal.Min(raw, p.def.MaxDiscountAmount.Amount())
	}
	raw = decimal.Min(raw, orderAmount.Amount())
	return kernel.RoundMoney(raw)
}

// CheckDiscount rejects a discount larger than the code yields for orderAmount.
func (p *PromoCode) CheckDiscount(orderAmount, discount kernel.Money) error {
	allowed := p.Discount(orderAmount)
	if discount.GreaterThan(allowed) {
		return errs.NewValueIsOutOfRangeError("discount_amount", discount.String(), "0.00", allowed.String())
	}
	return nil
}

// Redeem records one use of the code for an order worth orderAmount. The
// in-memory checks mirror the conditional increment the repository performs.
func (p *PromoCode) Redeem(
	userID, orderID kernel.UUID,
	orderAmount, discount kernel.Money,
	at time.Time,
) (*Redemption, error) {
	if !p.def.IsActive || p.isExhausted() {
		return nil, ErrLimitReached
	}
	if err := p.CheckDiscount(orderAmount, discount); err != nil {
		return nil, err
	}

	redemption, err := newRedemption(p, userID, orderID, discount, at)
	if err != nil {
		return nil, err
	}

	p.currentUsage++
	p.Raise(Redeemed{
		ID:             kernel.NewUUID(),
		PromoCodeID:    p.id,
		Code:           p.def.Code,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount,
		At:             redemption.UsedAt(),
	})
	return redemption, nil
}

func (p *PromoCode) isExpired(now time.Time) bool {
	return p.def.ExpiresAt != nil && now.After(*p.def.ExpiresAt)
}

func (p *PromoCode) isExhausted() bool {
	return p.def.UsageLimit != nil && p.currentUsage >= *p.def.UsageLimit
}

func (p *PromoCode) matchesScope(restaurantID kernel.UUID, categoryIDs []kernel.UUID) bool {
	switch p.def.Scope {
	case ScopeAll:
		return true
	case ScopeRestaurant:
		return p.def.ScopeTargetID != nil && p.def.ScopeTargetID.IsEqual(restaurantID)
	case ScopeCategory:
		if p.def.ScopeTargetID == nil {
			return false
		}
		for _, id := range categoryIDs {
			if p.def.ScopeTargetID.IsEqual(id) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (p *PromoCode) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func validateDefinition(def Definition) error {
	var problems []error

	if def.Code == "" {
		problems = append(problems, errs.NewValueIsRequiredError("code"))
	} else if len(def.Code) > maxCodeLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("code length", len(def.Code), 1, maxCodeLength))
	}

	switch def.DiscountType {
	case Percentage:
		if !def.DiscountValue.IsPositive() || def.DiscountValue.GreaterThan(hundred) {
			problems = append(problems,
				errs.NewValueIsOutOfRangeError("discount_value", def.DiscountValue.String(), "0 (exclusive)", "100"))
		}
	case Fixed:
		if _, err := kernel.NewMoney(def.DiscountValue); err != nil || !def.DiscountValue.IsPositive() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"discount_value",
				fmt.Errorf("%s is not a positive amount", def.DiscountValue),
			))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidError("discount_type"))
	}

	if def.MaxDiscountAmount != nil && def.MaxDiscountAmount.IsZero() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"max_discount_amount",
			errors.New("cap must be positive when set"),
		))
	}
	if def.UsageLimit != nil && *def.UsageLimit <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("usage_limit", *def.UsageLimit, 1, "unbounded"))
	}
	if def.PerUserLimit != 0 && def.PerUserLimit != 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("per_user_limit", def.PerUserLimit, 0, 1))
	}

	switch def.Scope {
	case ScopeAll:
		if def.ScopeTargetID != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				"scope_target_id",
				errors.New("scope all takes no target"),
			))
		}
	case ScopeRestaurant, ScopeCategory:
		if def.ScopeTargetID == nil || def.ScopeTargetID.Validate() != nil {
			problems = append(problems, errs.NewValueIsRequiredError("scope_target_id"))
		}
	default:
		problems = append(problems, errs.NewValueIsInvalidError("applicable_scope"))
	}

	return errors.Join(problems...)
}
