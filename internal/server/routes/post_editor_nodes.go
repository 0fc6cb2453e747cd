package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

// AddClassHandler adds a detached class and selects it.
func AddClassHandler(c echo.Context) error {
	return addNode(c, func(ed *flow.Editor) { ed.AddClass() })
}

// AddToolHandler adds a detached no_tool node and selects it.
func AddToolHandler(c echo.Context) error {
	return addNode(c, func(ed *flow.Editor) { ed.AddTool() })
}

func addNode(c echo.Context, add func(ed *flow.Editor)) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	view, err := s.Apply(func(ed *flow.Editor) error {
		add(ed)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}
