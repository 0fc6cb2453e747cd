package middleware

import (
	"github.com/orin-ai/agentdash/internal/editor"
	"github.com/orin-ai/agentdash/internal/queue"
	"github.com/orin-ai/agentdash/internal/storage"
	"github.com/orin-ai/agentdash/internal/store"

	"github.com/labstack/echo/v4"
)

type AppUser struct {
	Username string
}

// Auth holds the single dashboard credential and the JWT signing key.
type Auth struct {
	Secret   []byte
	Username string
	Password string
}

type App struct {
	Store  store.Store
	Events queue.Publisher
	// Snapshots is nil when no bucket is configured.
	Snapshots storage.Snapshots
	Sessions  *editor.Registry
	Tools     editor.CatalogSource
	Auth      Auth
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
