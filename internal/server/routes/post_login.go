package routes

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/orin-ai/agentdash/internal/server/middleware"
	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/labstack/echo/v4"
)

// LoginHandler checks the dashboard credential and sets the session cookie.
func LoginHandler(c echo.Context) error {
	type loginData struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	data := new(loginData)
	if err := c.Bind(data); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(data); err != nil {
		return invalidParams(c)
	}

	auth := app(c).Auth
	userOK := subtle.ConstantTimeCompare([]byte(data.Username), []byte(auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(data.Password), []byte(auth.Password)) == 1
	if !userOK || !passOK {
		logger.WithPrefix("auth").Warn("Rejected login", "username", data.Username)
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	token, err := middleware.IssueToken(auth.Secret, data.Username, now)
	if err != nil {
		return fail(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(middleware.TokenLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "token": token})
}
