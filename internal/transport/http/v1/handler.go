// Package v1 provides the public HTTP handlers for the console.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/fleetconsole/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Commands
	e.POST("/v1/commands", h.SubmitCommand)
	e.GET("/v1/intents", h.ListIntents)

	// Fleet
	e.GET("/v1/assets", h.ListAssets)
	e.GET("/v1/assets/geojson", h.AssetsGeoJSON)
	e.GET("/v1/assets/:asset_id", h.GetAsset)

	// Journal
	e.GET("/v1/dispatches", h.ListDispatches)
	e.GET("/v1/dispatches/:dispatch_id", h.GetDispatch)
	e.GET("/v1/dispatches/:dispatch_id/events", h.GetDispatchEvents)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
