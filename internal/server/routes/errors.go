package routes

import (
	"errors"
	"net/http"

	"github.com/orin-ai/agentdash/internal/editor"
	"github.com/orin-ai/agentdash/internal/server/middleware"
	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/pkg/flow"
	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/labstack/echo/v4"
)

var errNewAgentFields = errors.New("agent_name and all three system prompts are required to create an agent")

func app(c echo.Context) *middleware.App {
	return c.(*middleware.AppContext).App
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func invalidParams(c echo.Context) error {
	return errorJSON(c, http.StatusBadRequest, "Invalid request params")
}

// fail maps store, editor and flow errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500.
func fail(c echo.Context, err error) error {
	var connErr *flow.ConnectionError
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, editor.ErrSessionNotFound),
		errors.Is(err, editor.ErrSessionClosed),
		errors.Is(err, flow.ErrNodeNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.As(err, &connErr):
		return c.JSON(http.StatusConflict, map[string]string{
			"error":  err.Error(),
			"reason": connErr.Reason,
		})
	case errors.Is(err, flow.ErrStartImmutable),
		errors.Is(err, flow.ErrWrongNodeKind),
		errors.Is(err, flow.ErrUnknownTool),
		errors.Is(err, flow.ErrEmptyName),
		errors.Is(err, flow.ErrNoSelection):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	logger.Error("Request failed", "path", c.Path(), "err", err)
	return errorJSON(c, http.StatusInternalServerError, "Internal server error")
}
