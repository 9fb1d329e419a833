package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/fleetconsole/internal/domain"
)

const defaultListLimit = 50

// ListDispatches lists recent dispatches, newest first.
// GET /v1/dispatches
func (h *Handler) ListDispatches(c echo.Context) error {
	ctx := c.Request().Context()

	limit := defaultListLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = n
	}

	dispatches, err := h.service.ListDispatches(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if dispatches == nil {
		dispatches = []domain.Dispatch{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"dispatches": dispatches,
	})
}

// GetDispatch gets a specific dispatch by ID.
// GET /v1/dispatches/:dispatch_id
func (h *Handler) GetDispatch(c echo.Context) error {
	ctx := c.Request().Context()
	dispatchID := c.Param("dispatch_id")

	dispatch, err := h.service.GetDispatch(ctx, dispatchID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if dispatch == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "dispatch not found"})
	}
	return c.JSON(http.StatusOK, dispatch)
}

// GetDispatchEvents returns the journaled events of a dispatch.
// GET /v1/dispatches/:dispatch_id/events
func (h *Handler) GetDispatchEvents(c echo.Context) error {
	ctx := c.Request().Context()
	dispatchID := c.Param("dispatch_id")

	dispatch, err := h.service.GetDispatch(ctx, dispatchID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if dispatch == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "dispatch not found"})
	}

	var afterTs int64
	if v := c.QueryParam("after_ts"); v != "" {
		afterTs, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid after_ts"})
		}
	}

	var types []string
	if v := c.QueryParam("types"); v != "" {
		types = strings.Split(v, ",")
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
	}

	events, err := h.service.GetDispatchEvents(ctx, dispatchID, afterTs, types, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if events == nil {
		events = []domain.Event{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"dispatch_id": dispatchID,
		"events":      events,
	})
}
