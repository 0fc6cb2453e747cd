package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CloseEditorHandler drops a session. Unapplied edits are lost.
func CloseEditorHandler(c echo.Context) error {
	if err := app(c).Sessions.Close(c.Param("sid")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
