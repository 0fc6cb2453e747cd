package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"
	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetToolsHandler returns the tool catalog in catalog order.
func GetToolsHandler(c echo.Context) error {
	catalog, err := app(c).Tools.Catalog(c.Request().Context())
	if err != nil || catalog == nil {
		logger.Warn("Tool catalog unavailable, serving no_tool only", "err", err)
		catalog = flow.NewCatalog()
	}
	return c.JSON(http.StatusOK, catalog)
}
