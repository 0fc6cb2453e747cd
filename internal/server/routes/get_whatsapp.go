package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListNumbersHandler lists bot numbers with their assigned agent.
func ListNumbersHandler(c echo.Context) error {
	numbers, err := app(c).Store.ListNumbers(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, numbers)
}

func ListContactsHandler(c echo.Context) error {
	contacts, err := app(c).Store.ListContacts(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// ChatHistoryHandler returns the messages exchanged with a contact. An
// unknown phone has an empty history.
func ChatHistoryHandler(c echo.Context) error {
	history, err := app(c).Store.ChatHistory(c.Request().Context(), c.Param("phone"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

func ProfileHandler(c echo.Context) error {
	profile, err := app(c).Store.Profile(c.Request().Context(), c.Param("phone"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
