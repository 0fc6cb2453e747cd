package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func ListAgentsHandler(c echo.Context) error {
	agents, err := app(c).Store.ListAgents(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, agents)
}

func GetAgentHandler(c echo.Context) error {
	type getAgentData struct {
		ID int64 `param:"id" json:"-" validate:"required,min=1"`
	}

	data := new(getAgentData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	agent, err := app(c).Store.GetAgent(c.Request().Context(), data.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, agent)
}
