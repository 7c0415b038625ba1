package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps a use case error to the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrActorNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrStaleState),
		errors.Is(err, errs.ErrObjectExists),
		errors.Is(err, order.ErrAlreadyClaimed),
		errors.Is(err, promo.ErrAlreadyUsed),
		errors.Is(err, promo.ErrLimitReached):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrExternalRail):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error body. Only server-side failures are logged; contention
// and validation outcomes are part of normal traffic.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			slog.String("method", ctx.Request().Method),
			slog.String("path", ctx.Path()),
			slog.Any("error", err),
		)
		message = http.StatusText(status)
	}
	return ctx.JSON(status, Error{Code: status, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
