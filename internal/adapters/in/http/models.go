package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type NewOrder struct {
	OrderID        *openapi_types.UUID  `json:"order_id,omitempty"`
	CustomerID     openapi_types.UUID   `json:"customer_id"`
	RestaurantID   openapi_types.UUID   `json:"restaurant_id"`
	TotalAmount    string               `json:"total_amount"`
	DiscountAmount string               `json:"discount_amount,omitempty"`
	TipAmount      string               `json:"tip_amount,omitempty"`
	PromoCode      string               `json:"promo_code,omitempty"`
	CategoryIDs    []openapi_types.UUID `json:"category_ids,omitempty"`
}

type Order struct {
	ID             openapi_types.UUID  `json:"id"`
	CustomerID     openapi_types.UUID  `json:"customer_id"`
	RestaurantID   openapi_types.UUID  `json:"restaurant_id"`
	WorkerID       *openapi_types.UUID `json:"worker_id,omitempty"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	TotalAmount    string              `json:"total_amount"`
	DiscountAmount string              `json:"discount_amount"`
	TipAmount      string              `json:"tip_amount"`
	PromoCode      string              `json:"promo_code,omitempty"`
	FailureReason  string              `json:"failure_reason,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	AssignedAt     *time.Time          `json:"assigned_at,omitempty"`
	PickedUpAt     *time.Time          `json:"picked_up_at,omitempty"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	FailedAt       *time.Time          `json:"failed_at,omitempty"`
}

type AvailableOrder struct {
	ID             openapi_types.UUID `json:"id"`
	CustomerID     openapi_types.UUID `json:"customer_id"`
	RestaurantID   openapi_types.UUID `json:"restaurant_id"`
	TotalAmount    string             `json:"total_amount"`
	DiscountAmount string             `json:"discount_amount"`
	TipAmount      string             `json:"tip_amount"`
	PromoCode      string             `json:"promo_code,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

type ClaimRequest struct {
	WorkerID openapi_types.UUID `json:"worker_id"`
}

type TransitionRequest struct {
	ToStatus  string              `json:"to_status"`
	ActorID   *openapi_types.UUID `json:"actor_id,omitempty"`
	ActorRole string              `json:"actor_role"`
	Reason    string              `json:"reason,omitempty"`
}

type Transition struct {
	ID         openapi_types.UUID  `json:"id"`
	FromStatus string              `json:"from_status"`
	ToStatus   string              `json:"to_status"`
	ActorID    *openapi_types.UUID `json:"actor_id,omitempty"`
	ActorRole  string              `json:"actor_role"`
	Reason     string              `json:"reason,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type Settlement struct {
	OrderID            openapi_types.UUID `json:"order_id"`
	OrderAmount        string             `json:"order_amount"`
	PlatformCommission string             `json:"platform_commission"`
	WorkerCommission   string             `json:"worker_commission"`
	PaymentFee         string             `json:"payment_fee"`
	RestaurantPayout   string             `json:"restaurant_payout"`
	WorkerPayout       string             `json:"worker_payout"`
}

type NewPromoCode struct {
	ID                *openapi_types.UUID `json:"id,omitempty"`
	Code              string              `json:"code"`
	DiscountType      string              `json:"discount_type"`
	DiscountValue     string              `json:"discount_value"`
	MinOrderAmount    string              `json:"min_order_amount,omitempty"`
	MaxDiscountAmount *string             `json:"max_discount_amount,omitempty"`
	UsageLimit        *int                `json:"usage_limit,omitempty"`
	PerUserLimit      int                 `json:"per_user_limit,omitempty"`
	ExpiryAt          *time.Time          `json:"expiry_at,omitempty"`
	IsActive          *bool               `json:"is_active,omitempty"`
	ApplicableScope   string              `json:"applicable_scope,omitempty"`
	ScopeTargetID     *openapi_types.UUID `json:"scope_target_id,omitempty"`
}

type PromoCode struct {
	ID                openapi_types.UUID  `json:"id"`
	Code              string              `json:"code"`
	DiscountType      string              `json:"discount_type"`
	DiscountValue     string              `json:"discount_value"`
	MinOrderAmount    string              `json:"min_order_amount,omitempty"`
	MaxDiscountAmount *string             `json:"max_discount_amount,omitempty"`
	UsageLimit        *int                `json:"usage_limit,omitempty"`
	PerUserLimit      int                 `json:"per_user_limit"`
	ExpiryAt          *time.Time          `json:"expiry_at,omitempty"`
	IsActive          bool                `json:"is_active"`
	ApplicableScope   string              `json:"applicable_scope"`
	ScopeTargetID     *openapi_types.UUID `json:"scope_target_id,omitempty"`
	CurrentUsage      int                 `json:"current_usage"`
}

type ValidatePromoRequest struct {
	Code         string               `json:"code"`
	OrderAmount  string               `json:"order_amount"`
	RestaurantID openapi_types.UUID   `json:"restaurant_id"`
	UserID       openapi_types.UUID   `json:"user_id"`
	CategoryIDs  []openapi_types.UUID `json:"category_ids,omitempty"`
}

type PromoValidation struct {
	Valid          bool   `json:"valid"`
	DiscountAmount string `json:"discount_amount,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

type RedeemPromoRequest struct {
	Code           string             `json:"code"`
	OrderID        openapi_types.UUID `json:"order_id"`
	UserID         openapi_types.UUID `json:"user_id"`
	DiscountAmount string             `json:"discount_amount"`
}

type Redemption struct {
	ID             openapi_types.UUID `json:"id"`
	PromoCodeID    openapi_types.UUID `json:"promo_code_id"`
	UserID         openapi_types.UUID `json:"user_id"`
	OrderID        openapi_types.UUID `json:"order_id"`
	DiscountAmount string             `json:"discount_amount"`
	UsedAt         time.Time          `json:"used_at"`
}

type PayoutRequest struct {
	PayoutID      openapi_types.UUID  `json:"payout_id"`
	RecipientID   openapi_types.UUID  `json:"recipient_id"`
	RecipientType string              `json:"recipient_type"`
	Amount        string              `json:"amount"`
	Currency      string              `json:"currency"`
	OrderID       *openapi_types.UUID `json:"order_id,omitempty"`
}

type Payout struct {
	PayoutID      openapi_types.UUID  `json:"payout_id"`
	RecipientID   openapi_types.UUID  `json:"recipient_id"`
	RecipientType string              `json:"recipient_type"`
	Amount        string              `json:"amount"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	FailureReason string              `json:"failure_reason,omitempty"`
	OrderID       *openapi_types.UUID `json:"order_id,omitempty"`
	RailReference string              `json:"rail_reference,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type PartnerDeliveryEvent struct {
	OrderID openapi_types.UUID `json:"order_id"`
	Status  string             `json:"status"`
	Reason  string             `json:"reason,omitempty"`
}

type PaymentEvent struct {
	EventType     string              `json:"event_type"`
	OrderID       *openapi_types.UUID `json:"order_id,omitempty"`
	PayoutID      *openapi_types.UUID `json:"payout_id,omitempty"`
	Outcome       string              `json:"outcome"`
	Reason        string              `json:"reason,omitempty"`
	RailReference string              `json:"rail_reference,omitempty"`
}

type PaymentEventResult struct {
	Applied bool `json:"applied"`
}

// GetAvailableOrdersParams holds the query parameters of GET /orders/available.
type GetAvailableOrdersParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

func toOrder(o *order.Order) Order {
	s := o.Snapshot()
	resp := Order{
		ID:             s.ID.Bytes(),
		CustomerID:     s.CustomerID.Bytes(),
		RestaurantID:   s.RestaurantID.Bytes(),
		Status:         s.Status.String(),
		PaymentStatus:  s.PaymentStatus.String(),
		TotalAmount:    s.Pricing.Total().String(),
		DiscountAmount: s.Pricing.Discount().String(),
		TipAmount:      s.Pricing.Tip().String(),
		PromoCode:      s.Pricing.PromoCode(),
		FailureReason:  s.FailureReason,
		CancelReason:   s.CancelReason,
		CreatedAt:      s.CreatedAt,
		AssignedAt:     s.AssignedAt,
		PickedUpAt:     s.PickedUpAt,
		DeliveredAt:    s.DeliveredAt,
		CancelledAt:    s.CancelledAt,
		FailedAt:       s.FailedAt,
	}
	if s.WorkerID != nil {
		worker := s.WorkerID.Bytes()
		resp.WorkerID = &worker
	}
	return resp
}

func toAvailableOrder(o queries.AvailableOrder) AvailableOrder {
	return AvailableOrder{
		ID:             o.ID.Bytes(),
		CustomerID:     o.CustomerID.Bytes(),
		RestaurantID:   o.RestaurantID.Bytes(),
		TotalAmount:    o.TotalAmount.String(),
		DiscountAmount: o.DiscountAmount.String(),
		TipAmount:      o.TipAmount.String(),
		PromoCode:      o.PromoCode,
		CreatedAt:      o.CreatedAt,
	}
}

func toTransition(t queries.OrderTransitionView) Transition {
	resp := Transition{
		ID:         t.ID.Bytes(),
		FromStatus: t.FromStatus,
		ToStatus:   t.ToStatus,
		ActorRole:  t.ActorRole,
		Reason:     t.Reason,
		OccurredAt: t.OccurredAt,
	}
	if t.ActorID != nil {
		actor := t.ActorID.Bytes()
		resp.ActorID = &actor
	}
	return resp
}

func toSettlement(orderID openapi_types.UUID, s services.Settlement) Settlement {
	return Settlement{
		OrderID:            orderID,
		OrderAmount:        s.OrderAmount.String(),
		PlatformCommission: s.PlatformCommission.StringFixed(2),
		WorkerCommission:   s.WorkerCommission.StringFixed(2),
		PaymentFee:         s.PaymentFee.StringFixed(2),
		RestaurantPayout:   s.RestaurantPayout.StringFixed(2),
		WorkerPayout:       s.WorkerPayout.StringFixed(2),
	}
}

func toPromoCode(p *promo.PromoCode) PromoCode {
	def := p.Definition()
	resp := PromoCode{
		ID:              p.ID().Bytes(),
		Code:            def.Code,
		DiscountType:    def.DiscountType.String(),
		DiscountValue:   def.DiscountValue.String(),
		MinOrderAmount:  def.MinOrderAmount.String(),
		UsageLimit:      def.UsageLimit,
		PerUserLimit:    def.PerUserLimit,
		ExpiryAt:        def.ExpiresAt,
		IsActive:        def.IsActive,
		ApplicableScope: def.Scope.String(),
		CurrentUsage:    p.CurrentUsage(),
	}
	if def.MaxDiscountAmount != nil {
		capAmount := def.MaxDiscountAmount.String()
		resp.MaxDiscountAmount = &capAmount
	}
	if def.ScopeTargetID != nil {
		target := def.ScopeTargetID.Bytes()
		resp.ScopeTargetID = &target
	}
	return resp
}

func toPromoValidation(v queries.PromoValidation) PromoValidation {
	if !v.Valid {
		return PromoValidation{Valid: false, Reason: string(v.Reason)}
	}
	return PromoValidation{Valid: true, DiscountAmount: v.DiscountAmount.String()}
}

func toRedemption(r *promo.Redemption) Redemption {
	return Redemption{
		ID:             r.ID().Bytes(),
		PromoCodeID:    r.PromoCodeID().Bytes(),
		UserID:         r.UserID().Bytes(),
		OrderID:        r.OrderID().Bytes(),
		DiscountAmount: r.DiscountAmount().String(),
		UsedAt:         r.UsedAt(),
	}
}

func toPayout(p *payout.Payout) Payout {
	s := p.Snapshot()
	resp := Payout{
		PayoutID:      s.ID.Bytes(),
		RecipientID:   s.RecipientID.Bytes(),
		RecipientType: s.RecipientType.String(),
		Amount:        s.Amount.String(),
		Currency:      s.Currency,
		Status:        s.Status.String(),
		FailureReason: s.FailureReason,
		RailReference: s.RailReference,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.OrderID != nil {
		orderID := s.OrderID.Bytes()
		resp.OrderID = &orderID
	}
	return resp
}
