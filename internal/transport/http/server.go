// Package http provides the HTTP server implementation for the console.
package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/xiaot623/gogo/fleetconsole/internal/metrics"
	"github.com/xiaot623/gogo/fleetconsole/internal/service"
	v1 "github.com/xiaot623/gogo/fleetconsole/internal/transport/http/v1"
)

// NewAPIServer creates the command and query API. m may be nil.
func NewAPIServer(svc *service.Service, m *metrics.Metrics, logger *zap.Logger) *echo.Echo {
	e := NewEcho(logger)
	e.Use(middleware.CORS())

	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e)

	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	return e
}

// NewEcho returns an echo instance with the console's middleware.
func NewEcho(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())
	return e
}

// RequestLogger logs each request through zap.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			if v.Status >= http.StatusInternalServerError {
				logger.Warn("Request", fields...)
				return nil
			}
			logger.Debug("Request", fields...)
			return nil
		},
	})
}
