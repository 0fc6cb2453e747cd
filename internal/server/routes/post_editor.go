package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// OpenEditorHandler starts an editing session, blank or over an agent.
func OpenEditorHandler(c echo.Context) error {
	type openEditorData struct {
		AgentID int64 `json:"agent_id" validate:"min=0"`
	}

	data := new(openEditorData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	a := app(c)
	s, err := a.Sessions.Open(c.Request().Context(), a.Tools, a.Store, data.AgentID)
	if err != nil {
		return fail(c, err)
	}
	view, err := s.View()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}
