package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

// SelectHandler selects a node, or clears the selection for a null id.
func SelectHandler(c echo.Context) error {
	type selectData struct {
		NodeID *string `json:"node_id"`
	}

	data := new(selectData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}

	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	view, err := s.Apply(func(ed *flow.Editor) error {
		if data.NodeID == nil {
			ed.Deselect()
			return nil
		}
		return ed.Select(*data.NodeID)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
