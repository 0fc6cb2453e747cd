package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AssignAgentHandler points a bot number at an agent, or unassigns it when
// agent_id is null.
func AssignAgentHandler(c echo.Context) error {
	type assignAgentData struct {
		Phone   string `param:"phone" json:"-" validate:"required"`
		AgentID *int64 `json:"agent_id" validate:"omitempty,min=1"`
	}

	data := new(assignAgentData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	number, err := app(c).Store.AssignAgent(c.Request().Context(), data.Phone, data.AgentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, number)
}
