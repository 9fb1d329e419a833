package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/fleetconsole/internal/service"
)

// CommandRequest is the request to process one utterance.
type CommandRequest struct {
	Text string `json:"text"`
}

// SubmitCommand resolves and dispatches an utterance.
// POST /v1/commands
func (h *Handler) SubmitCommand(c echo.Context) error {
	ctx := c.Request().Context()

	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	outcome, err := h.service.ProcessCommand(ctx, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCommand) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"dispatch_id": outcome.DispatchID,
		"outcome":     outcome.Kind,
		"intent":      outcome.Keyword(),
		"asset_id":    outcome.AssetID(),
		"targets":     outcome.TargetIDs(),
	})
}

// ListIntents lists recognized commands in precedence order.
// GET /v1/intents
func (h *Handler) ListIntents(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"intents": h.service.ListIntents(),
	})
}
