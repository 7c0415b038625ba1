package http

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/adapters/in/http/openapi"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// requestTimeout bounds the context handed to use cases.
const requestTimeout = 15 * time.Second

// NewRouter builds the echo instance serving the API. Requests are logged,
// panics recovered and bodies validated against the embedded OpenAPI document
// before they reach the Server.
func NewRouter(server *Server, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := openapi.Load()
	if err != nil {
		return nil, err
	}
	validator, err := openapi.RequestValidator(doc)
	if err != nil {
		return nil, err
	}
	if err = openapi.RegisterSwagger(doc); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	accessLog := logger.With("component", "http_access")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= 500 {
				level = slog.LevelError
			}
			accessLog.LogAttrs(context.Background(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.ContextTimeout(requestTimeout))
	e.Use(validator)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	RegisterHandlers(e, server)
	return e, nil
}
