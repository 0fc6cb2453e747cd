package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

type edgeData struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// ConnectHandler adds an edge. A refused connection answers 409 with the
// reason and leaves the session unchanged.
func ConnectHandler(c echo.Context) error {
	return editEdge(c, http.StatusCreated, func(ed *flow.Editor, d *edgeData) error {
		return ed.Connect(d.Source, d.Target)
	})
}

func DisconnectHandler(c echo.Context) error {
	return editEdge(c, http.StatusOK, func(ed *flow.Editor, d *edgeData) error {
		return ed.Disconnect(d.Source, d.Target)
	})
}

func editEdge(c echo.Context, status int, fn func(ed *flow.Editor, d *edgeData) error) error {
	data := new(edgeData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	view, err := s.Apply(func(ed *flow.Editor) error {
		return fn(ed, data)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(status, view)
}
