package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orin-ai/agentdash/internal/editor"
	"github.com/orin-ai/agentdash/internal/queue"
	mid "github.com/orin-ai/agentdash/internal/server/middleware"
	"github.com/orin-ai/agentdash/internal/storage"
	"github.com/orin-ai/agentdash/internal/store"
	"github.com/orin-ai/agentdash/internal/store/pgstore"
	"github.com/orin-ai/agentdash/internal/util"
	"github.com/orin-ai/agentdash/pkg/flow"
	"github.com/orin-ai/agentdash/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// New builds the HTTP server around app without starting it.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("8M"))

	RegisterRoutes(e)
	return e
}

func openStore(ctx context.Context) store.Store {
	url := util.GetEnv("DATABASE_URL")
	if url == "" {
		logger.WithPrefix("store").Info("DATABASE_URL not set, using seeded in-memory store")
		m, err := store.NewSeededMemory()
		if err != nil {
			logger.Fatal("Failed to load seed data", "err", err)
		}
		return m
	}

	pg, err := pgstore.Open(ctx, url)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	return pg
}

func toolSource() editor.CatalogSource {
	if path := util.GetEnv("TOOLS_FILE"); path != "" {
		logger.Info("Loading tool catalog from file", "path", path)
		return editor.FileCatalog(path)
	}
	return editor.StaticCatalog(flow.DefaultCatalog())
}

// Init wires the configured backends, serves until SIGINT or SIGTERM and
// shuts down gracefully.
func Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStore(ctx)
	defer st.Close()

	var events queue.Publisher = queue.Discard{}
	if cfg := queue.ConfigFromEnv(); cfg.Host != "" {
		conn, err := queue.Dial(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", "err", err)
		}
		defer conn.Close()

		pub, err := queue.NewAMQPPublisher(conn)
		if err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		defer pub.Close()
		events = pub
	} else {
		logger.WithPrefix("queue").Info("RABBITMQ_HOST not set, events are dropped")
	}

	var snapshots storage.Snapshots
	if cfg := storage.S3ConfigFromEnv(); cfg.Bucket != "" {
		s3, err := storage.NewS3(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to create S3 client", "err", err)
		}
		snapshots = s3
	}

	secret := util.GetEnv("AUTH_SECRET")
	if secret == "" {
		generated, err := util.NewID()
		if err != nil {
			logger.Fatal("Failed to generate auth secret", "err", err)
		}
		secret = generated
		logger.Warn("AUTH_SECRET not set, tokens will not survive a restart")
	}

	sessions := editor.NewRegistry(util.GetEnvMinutes("SESSION_TTL_MINUTES", time.Hour))
	go sessions.Run(ctx, time.Minute)

	app := &mid.App{
		Store:     st,
		Events:    events,
		Snapshots: snapshots,
		Sessions:  sessions,
		Tools:     toolSource(),
		Auth: mid.Auth{
			Secret:   []byte(secret),
			Username: util.GetEnvString("AUTH_USERNAME", "user"),
			Password: util.GetEnvString("AUTH_PASSWORD", "pass"),
		},
	}
	e := New(app)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
