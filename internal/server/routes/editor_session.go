package routes

import (
	"github.com/orin-ai/agentdash/internal/editor"

	"github.com/labstack/echo/v4"
)

// session resolves the :sid path parameter.
func session(c echo.Context) (*editor.Session, error) {
	return app(c).Sessions.Get(c.Param("sid"))
}
