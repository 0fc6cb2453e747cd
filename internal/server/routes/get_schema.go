package routes

import (
	"net/http"

	"github.com/orin-ai/agentdash/pkg/flow"

	"github.com/labstack/echo/v4"
)

func GetQuestionClassSchemaHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, flow.Schema())
}
