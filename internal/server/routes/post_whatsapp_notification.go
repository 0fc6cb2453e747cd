package routes

import (
	"net/http"
	"slices"

	"github.com/orin-ai/agentdash/internal/queue"
	"github.com/orin-ai/agentdash/internal/store"

	"github.com/labstack/echo/v4"
)

// DummyNotificationHandler queues a test alert for a contact. Alert types
// not listed in the allowed_alert_type setting are refused.
func DummyNotificationHandler(c echo.Context) error {
	data := new(queue.Notification)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	a := app(c)
	allowed, err := store.AllowedAlertTypes(ctx, a.Store)
	if err != nil {
		return fail(c, err)
	}
	if !slices.Contains(allowed, data.AlertType) {
		return errorJSON(c, http.StatusBadRequest, "alert_type not allowed: "+data.AlertType)
	}

	if err := a.Events.PublishNotification(ctx, *data); err != nil {
		return errorJSON(c, http.StatusBadGateway, "Failed to queue notification")
	}
	return c.JSON(http.StatusAccepted, map[string]bool{"ok": true})
}
