package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/internal/queue"

	"github.com/labstack/echo/v4"
)

func DeleteAgentHandler(c echo.Context) error {
	type deleteAgentData struct {
		ID int64 `param:"id" json:"-" validate:"required,min=1"`
	}

	data := new(deleteAgentData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	a := app(c)
	if err := a.Store.DeleteAgent(ctx, data.ID); err != nil {
		return fail(c, err)
	}
	publish(ctx, a, queue.AgentDeleted(data.ID))

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
