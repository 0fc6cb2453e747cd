package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

// UpdateNodeHandler edits node attributes. Only the fields present in the
// body change; x and y move the node without touching the tree.
func UpdateNodeHandler(c echo.Context) error {
	type updateNodeData struct {
		NodeID       string   `param:"nid" json:"-" validate:"required"`
		Name         *string  `json:"name"`
		Description  *string  `json:"description"`
		Instructions *string  `json:"instructions"`
		ToolKey      *string  `json:"tool_key"`
		X            *float64 `json:"x"`
		Y            *float64 `json:"y"`
	}

	data := new(updateNodeData)
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
		patch := flow.NodePatch{
			Name:         data.Name,
			Description:  data.Description,
			Instructions: data.Instructions,
			ToolKey:      data.ToolKey,
		}
		if data.X != nil || data.Y != nil {
			n, ok := ed.Node(data.NodeID)
			if !ok {
				return flow.ErrNodeNotFound
			}
			pos := n.Position
			if data.X != nil {
				pos.X = *data.X
			}
			if data.Y != nil {
				pos.Y = *data.Y
			}
			patch.Position = &pos
		}
		return ed.UpdateNode(data.NodeID, patch)
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
