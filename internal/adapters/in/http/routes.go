package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists the operations of the HTTP API, one method per route.
type ServerInterface interface {
	// (GET /health)
	Health(ctx echo.Context) error
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// (GET /api/v1/orders/available)
	GetAvailableOrders(ctx echo.Context, params GetAvailableOrdersParams) error
	// (POST /api/v1/orders/{orderId}/claim)
	ClaimOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /api/v1/orders/{orderId}/transitions)
	GetOrderTransitions(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/transitions)
	TransitionOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/settlement)
	SettleOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/promo-codes)
	CreatePromoCode(ctx echo.Context) error
	// (POST /api/v1/promo-codes/validate)
	ValidatePromo(ctx echo.Context) error
	// (POST /api/v1/promo-codes/redeem)
	RedeemPromo(ctx echo.Context) error
	// (POST /api/v1/payouts)
	RequestPayout(ctx echo.Context) error
	// (POST /api/v1/webhooks/partner-delivery)
	PartnerDeliveryWebhook(ctx echo.Context) error
	// (POST /api/v1/webhooks/payment)
	PaymentWebhook(ctx echo.Context) error
}

// ServerInterfaceWrapper binds path and query parameters before calling the
// typed handler.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) Health(ctx echo.Context) error {
	return w.Handler.Health(ctx)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetAvailableOrders(ctx echo.Context) error {
	var params GetAvailableOrdersParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	return w.Handler.GetAvailableOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) ClaimOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ClaimOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) GetOrderTransitions(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrderTransitions(ctx, orderID)
}

func (w *ServerInterfaceWrapper) TransitionOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.TransitionOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) SettleOrder(ctx echo.Context) error {
	orderID, err := bindOrderID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SettleOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) CreatePromoCode(ctx echo.Context) error {
	return w.Handler.CreatePromoCode(ctx)
}

func (w *ServerInterfaceWrapper) ValidatePromo(ctx echo.Context) error {
	return w.Handler.ValidatePromo(ctx)
}

func (w *ServerInterfaceWrapper) RedeemPromo(ctx echo.Context) error {
	return w.Handler.RedeemPromo(ctx)
}

func (w *ServerInterfaceWrapper) RequestPayout(ctx echo.Context) error {
	return w.Handler.RequestPayout(ctx)
}

func (w *ServerInterfaceWrapper) PartnerDeliveryWebhook(ctx echo.Context) error {
	return w.Handler.PartnerDeliveryWebhook(ctx)
}

func (w *ServerInterfaceWrapper) PaymentWebhook(ctx echo.Context) error {
	return w.Handler.PaymentWebhook(ctx)
}

func bindOrderID(ctx echo.Context) (openapi_types.UUID, error) {
	var orderID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return orderID, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}
	return orderID, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds every route of the API to the router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET("/health", w.Health)
	router.POST("/api/v1/orders", w.CreateOrder)
	router.GET("/api/v1/orders/available", w.GetAvailableOrders)
	router.POST("/api/v1/orders/:orderId/claim", w.ClaimOrder)
	router.GET("/api/v1/orders/:orderId/transitions", w.GetOrderTransitions)
	router.POST("/api/v1/orders/:orderId/transitions", w.TransitionOrder)
	router.POST("/api/v1/orders/:orderId/settlement", w.SettleOrder)
	router.POST("/api/v1/promo-codes", w.CreatePromoCode)
	router.POST("/api/v1/promo-codes/validate", w.ValidatePromo)
	router.POST("/api/v1/promo-codes/redeem", w.RedeemPromo)
	router.POST("/api/v1/payouts", w.RequestPayout)
	router.POST("/api/v1/webhooks/partner-delivery", w.PartnerDeliveryWebhook)
	router.POST("/api/v1/webhooks/payment", w.PaymentWebhook)
}
