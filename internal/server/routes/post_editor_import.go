package routes

import (
	"io"
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

// ImportTreeHandler replaces the session graph with a pasted question
// class tree. Like agent import it repairs broken JSON first and accepts a
// whole agent or export document. Unknown tool keys are reported in the
// view rather than rejected.
func ImportTreeHandler(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportSize))
	if err != nil {
		return invalidParams(c)
	}
	tree, err := flow.ParseDocument(raw)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	view, err := s.Apply(func(ed *flow.Editor) error {
		ed.Reset(tree)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
