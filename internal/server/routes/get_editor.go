package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func GetEditorHandler(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	view, err := s.View()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
