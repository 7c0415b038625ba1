package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payout"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	ClaimOrderHandler interface {
		Handle(ctx context.Context, cmd commands.ClaimOrderCommand) (*order.Order, error)
	}
	TransitionOrderHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error)
	}
	CreatePromoCodeHandler interface {
		Handle(ctx context.Context, cmd commands.CreatePromoCodeCommand) (*promo.PromoCode, error)
	}
	RedeemPromoHandler interface {
		Handle(ctx context.Context, cmd commands.RedeemPromoCommand) (*promo.Redemption, error)
	}
	RequestPayoutHandler interface {
		Handle(ctx context.Context, cmd commands.RequestPayoutCommand) (*payout.Payout, error)
	}
	RecordPaymentEventHandler interface {
		Handle(ctx context.Context, cmd commands.RecordPaymentEventCommand) (bool, error)
	}
	AvailableOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]queries.AvailableOrder, error)
	}
	OrderTransitionsHandler interface {
		Handle(ctx context.Context, query queries.GetOrderTransitionsQuery) ([]queries.OrderTransitionView, error)
	}
	ValidatePromoHandler interface {
		Handle(ctx context.Context, query queries.ValidatePromoQuery) (queries.PromoValidation, error)
	}
	SettleOrderHandler interface {
		Handle(ctx context.Context, query queries.SettleOrderQuery) (services.Settlement, error)
	}
)

// Handlers groups the use cases the HTTP API exposes.
type Handlers struct {
	CreateOrder        CreateOrderHandler
	ClaimOrder         ClaimOrderHandler
	TransitionOrder    TransitionOrderHandler
	CreatePromoCode    CreatePromoCodeHandler
	RedeemPromo        RedeemPromoHandler
	RequestPayout      RequestPayoutHandler
	RecordPaymentEvent RecordPaymentEventHandler

	AvailableOrders  AvailableOrdersHandler
	OrderTransitions OrderTransitionsHandler
	ValidatePromo    ValidatePromoHandler
	SettleOrder      SettleOrderHandler
}

// Server implements ServerInterface. It translates HTTP payloads into commands
// and queries and maps their results and errors back.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{h: handlers, logger: logger.With("component", "http")}
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.OrderID != nil {
		id, err := fromAPIID("order_id", *body.OrderID)
		if err != nil {
			return s.fail(ctx, err)
		}
		orderID = id
	}
	customerID, customerErr := fromAPIID("customer_id", body.CustomerID)
	restaurantID, restaurantErr := fromAPIID("restaurant_id", body.RestaurantID)
	total, totalErr := parseMoney("total_amount", body.TotalAmount)
	discount, discountErr := parseOptionalMoney("discount_amount", body.DiscountAmount)
	tip, tipErr := parseOptionalMoney("tip_amount", body.TipAmount)
	categories, categoriesErr := fromAPIIDs("category_ids", body.CategoryIDs)
	if err := errors.Join(customerErr, restaurantErr, totalErr, discountErr, tipErr, categoriesErr); err != nil {
		return s.fail(ctx, err)
	}

	pricing, err := order.NewPricing(total, discount, tip, body.PromoCode)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, restaurantID, pricing, categories...)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// GetAvailableOrders handles GET /api/v1/orders/available.
func (s *Server) GetAvailableOrders(ctx echo.Context, params GetAvailableOrdersParams) error {
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	query, err := queries.NewGetAvailableOrdersQuery(limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	orders, err := s.h.AvailableOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]AvailableOrder, len(orders))
	for i, o := range orders {
		response[i] = toAvailableOrder(o)
	}
	return ctx.JSON(http.StatusOK, response)
}

// ClaimOrder handles POST /api/v1/orders/{orderId}/claim.
func (s *Server) ClaimOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	var body ClaimRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, idErr := fromAPIID("order_id", orderID)
	workerID, workerErr := fromAPIID("worker_id", body.WorkerID)
	if err := errors.Join(idErr, workerErr); err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewClaimOrderCommand(id, workerID)
	if err != nil {
		return s.fail(ctx, err)
	}

	claimed, err := s.h.ClaimOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(claimed))
}

// GetOrderTransitions handles GET /api/v1/orders/{orderId}/transitions.
func (s *Server) GetOrderTransitions(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := fromAPIID("order_id", orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderTransitionsQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	transitions, err := s.h.OrderTransitions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Transition, len(transitions))
	for i, t := range transitions {
		response[i] = toTransition(t)
	}
	return ctx.JSON(http.StatusOK, response)
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, idErr := fromAPIID("order_id", orderID)
	to, statusErr := order.ParseStatus(body.ToStatus)
	role, roleErr := order.ParseRole(body.ActorRole)
	if err := errors.Join(idErr, statusErr, roleErr); err != nil {
		return s.fail(ctx, err)
	}

	var actorID kernel.UUID
	if body.ActorID != nil {
		parsed, err := fromAPIID("actor_id", *body.ActorID)
		if err != nil {
			return s.fail(ctx, err)
		}
		actorID = parsed
	}
	actor, err := order.NewActor(actorID, role)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(id, to, actor, body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.h.TransitionOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(updated))
}

// SettleOrder handles POST /api/v1/orders/{orderId}/settlement.
func (s *Server) SettleOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := fromAPIID("order_id", orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewSettleOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	settlement, err := s.h.SettleOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toSettlement(orderID, settlement))
}

// CreatePromoCode handles POST /api/v1/promo-codes.
func (s *Server) CreatePromoCode(ctx echo.Context) error {
	var body NewPromoCode
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	promoID := kernel.NewUUID()
	if body.ID != nil {
		id, err := fromAPIID("id", *body.ID)
		if err != nil {
			return s.fail(ctx, err)
		}
		promoID = id
	}
	def, err := toDefinition(body)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreatePromoCodeCommand(promoID, def)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.h.CreatePromoCode.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toPromoCode(created))
}

// ValidatePromo handles POST /api/v1/promo-codes/validate. Inapplicable codes
// are a 200 with valid=false and a reason.
func (s *Server) ValidatePromo(ctx echo.Context) error {
	var body ValidatePromoRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amount, amountErr := parseMoney("order_amount", body.OrderAmount)
	restaurantID, restaurantErr := fromAPIID("restaurant_id", body.RestaurantID)
	userID, userErr := fromAPIID("user_id", body.UserID)
	categories, categoriesErr := fromAPIIDs("category_ids", body.CategoryIDs)
	if err := errors.Join(amountErr, restaurantErr, userErr, categoriesErr); err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewValidatePromoQuery(body.Code, amount, restaurantID, userID, categories)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.ValidatePromo.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toPromoValidation(result))
}

// RedeemPromo handles POST /api/v1/promo-codes/redeem.
func (s *Server) RedeemPromo(ctx echo.Context) error {
	var body RedeemPromoRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, orderErr := fromAPIID("order_id", body.OrderID)
	userID, userErr := fromAPIID("user_id", body.UserID)
	discount, discountErr := parseMoney("discount_amount", body.DiscountAmount)
	if err := errors.Join(orderErr, userErr, discountErr); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewRedeemPromoCommand(body.Code, orderID, userID, discount)
	if err != nil {
		return s.fail(ctx, err)
	}

	redemption, err := s.h.RedeemPromo.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toRedemption(redemption))
}

// RequestPayout handles POST /api/v1/payouts. Repeating a payout id returns the
// stored payout.
func (s *Server) RequestPayout(ctx echo.Context) error {
	var body PayoutRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	payoutID, payoutErr := fromAPIID("payout_id", body.PayoutID)
	recipientID, recipientErr := fromAPIID("recipient_id", body.RecipientID)
	recipientType, typeErr := payout.ParseRecipientType(body.RecipientType)
	amount, amountErr := parseMoney("amount", body.Amount)
	if err := errors.Join(payoutErr, recipientErr, typeErr, amountErr); err != nil {
		return s.fail(ctx, err)
	}

	var orderID *kernel.UUID
	if body.OrderID != nil {
		id, err := fromAPIID("order_id", *body.OrderID)
		if err != nil {
			return s.fail(ctx, err)
		}
		orderID = &id
	}

	cmd, err := commands.NewRequestPayoutCommand(payoutID, recipientID, recipientType, amount, body.Currency, orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	stored, err := s.h.RequestPayout.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toPayout(stored))
}

// PartnerDeliveryWebhook handles POST /api/v1/webhooks/partner-delivery.
func (s *Server) PartnerDeliveryWebhook(ctx echo.Context) error {
	var body PartnerDeliveryEvent
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, idErr := fromAPIID("order_id", body.OrderID)
	to, statusErr := order.ParseStatus(body.Status)
	if err := errors.Join(idErr, statusErr); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewPartnerDeliveryCommand(orderID, to, body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.h.TransitionOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(updated))
}

// PaymentWebhook handles POST /api/v1/webhooks/payment. Redelivered events
// answer 200 with applied=false.
func (s *Server) PaymentWebhook(ctx echo.Context) error {
	var body PaymentEvent
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	eventType := commands.PaymentEventType(body.EventType)
	var target *openapi_types.UUID
	switch eventType {
	case commands.OrderPaymentEvent:
		target = body.OrderID
	case commands.PayoutStatusEvent:
		target = body.PayoutID
	default:
		return s.fail(ctx, errs.NewValueIsInvalidError("event_type"))
	}
	if target == nil {
		return s.fail(ctx, errs.NewValueIsRequiredError("target id"))
	}

	targetID, err := fromAPIID("target id", *target)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRecordPaymentEventCommand(eventType, targetID, body.Outcome, body.Reason, body.RailReference)
	if err != nil {
		return s.fail(ctx, err)
	}

	applied, err := s.h.RecordPaymentEvent.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, PaymentEventResult{Applied: applied})
}

func toDefinition(body NewPromoCode) (promo.Definition, error) {
	discountType, typeErr := promo.ParseDiscountType(body.DiscountType)
	value, valueErr := decimal.NewFromString(body.DiscountValue)
	if valueErr != nil {
		valueErr = errs.NewValueIsInvalidErrorWithCause("discount_value", valueErr)
	}
	minAmount, minErr := parseOptionalMoney("min_order_amount", body.MinOrderAmount)

	scopeName := body.ApplicableScope
	if scopeName == "" {
		scopeName = "all"
	}
	scope, scopeErr := promo.ParseScope(scopeName)

	var capErr, targetErr error
	def := promo.Definition{
		Code:           body.Code,
		DiscountType:   discountType,
		DiscountValue:  value,
		MinOrderAmount: minAmount,
		UsageLimit:     body.UsageLimit,
		PerUserLimit:   body.PerUserLimit,
		ExpiresAt:      body.ExpiryAt,
		IsActive:       body.IsActive == nil || *body.IsActive,
		Scope:          scope,
	}
	if body.MaxDiscountAmount != nil {
		var capAmount kernel.Money
		capAmount, capErr = parseMoney("max_discount_amount", *body.MaxDiscountAmount)
		def.MaxDiscountAmount = &capAmount
	}
	if body.ScopeTargetID != nil {
		var target kernel.UUID
		target, targetErr = fromAPIID("scope_target_id", *body.ScopeTargetID)
		def.ScopeTargetID = &target
	}
	if def.ExpiresAt != nil {
		expiry := def.ExpiresAt.UTC()
		def.ExpiresAt = &expiry
	}

	if err := errors.Join(typeErr, valueErr, minErr, scopeErr, capErr, targetErr); err != nil {
		return promo.Definition{}, err
	}
	return def, nil
}

func fromAPIID(param string, id openapi_types.UUID) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return parsed, nil
}

func fromAPIIDs(param string, ids []openapi_types.UUID) ([]kernel.UUID, error) {
	parsed := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		p, err := fromAPIID(param, id)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, p)
	}
	return parsed, nil
}

func parseMoney(param, value string) (kernel.Money, error) {
	m, err := kernel.MoneyFromString(value)
	if err != nil {
		return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return m, nil
}

func parseOptionalMoney(param, value string) (kernel.Money, error) {
	if value == "" {
		return kernel.ZeroMoney(), nil
	}
	return parseMoney(param, value)
}
