package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/internal/queue"

	"github.com/labstack/echo/v4"
)

// CreateAgentHandler stores a new agent with its tree canonicalised.
func CreateAgentHandler(c echo.Context) error {
	data := new(agentBody)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	a := app(c)
	agent, err := a.Store.CreateAgent(ctx, data.agent())
	if err != nil {
		return fail(c, err)
	}
	publish(ctx, a, queue.AgentUpdated(agent))

	return c.JSON(http.StatusCreated, agent)
}
