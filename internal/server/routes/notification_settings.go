package routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const promptPrefix = "prompt_"

func ListSettingsHandler(c echo.Context) error {
	settings, err := app(c).Store.ListSettings(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, settings)
}

// CreateSettingHandler adds a prompt setting. The name gets the prompt_
// prefix unless it already has it; existing names answer 409.
func CreateSettingHandler(c echo.Context) error {
	type createSettingData struct {
		Setting string `json:"setting" validate:"required"`
		Value   string `json:"value"`
	}

	data := new(createSettingData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	name := strings.TrimSpace(data.Setting)
	if !strings.HasPrefix(name, promptPrefix) {
		name = promptPrefix + name
	}
	if name == promptPrefix {
		return invalidParams(c)
	}

	setting, err := app(c).Store.CreateSetting(c.Request().Context(), name, data.Value)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, setting)
}

func UpdateSettingHandler(c echo.Context) error {
	type updateSettingData struct {
		Setting string  `param:"setting" json:"-" validate:"required"`
		Value   *string `json:"value" validate:"required"`
	}

	data := new(updateSettingData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	setting, err := app(c).Store.UpdateSetting(c.Request().Context(), data.Setting, *data.Value)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, setting)
}

func DeleteSettingHandler(c echo.Context) error {
	if err := app(c).Store.DeleteSetting(c.Request().Context(), c.Param("setting")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
