package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

func DeleteNodeHandler(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	view, err := s.Apply(func(ed *flow.Editor) error {
		return ed.DeleteNode(c.Param("nid"))
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
