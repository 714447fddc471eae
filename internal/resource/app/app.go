package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/openlearnco/campus/internal/resource/http"
	"github.com/openlearnco/campus/internal/resource/service"
	"github.com/openlearnco/campus/internal/resource/store"
	"github.com/openlearnco/campus/internal/resource/store/sqlite"
	"github.com/openlearnco/campus/pkg/cryptox"
	"github.com/openlearnco/campus/pkg/httpx"
	"github.com/openlearnco/campus/pkg/jwtx"
	"github.com/openlearnco/campus/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the resource service with all its dependencies.
// It never talks to the auth service at runtime: tokens are verified
// locally with the shared secret.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db             store.Store
	authn          httpx.Authenticator
	internalSecret string

	datasetService *service.DatasetService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "resource-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initSecrets(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.datasetService = &service.DatasetService{Store: app.db}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("resource service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down resource service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("resource service stopped")
	return nil
}

func (app *Application) initSecrets() error {
	jwtSecret, err := cryptox.LoadSecret(app.cfg.JWTSecret, app.cfg.JWTSecretFile)
	if err != nil {
		return fmt.Errorf("failed to load JWT secret: %w", err)
	}

	app.authn = httpx.Authenticator{
		Verifier: jwtx.NewVerifierHS256([]byte(jwtSecret), jwtx.VerifyOptions{
			TokenType: jwtx.TokenTypeAccess,
			Issuer:    app.cfg.Issuer,
		}),
	}

	internalSecret, err := cryptox.LoadSecret(app.cfg.InternalSecret, app.cfg.InternalSecretFile)
	if err != nil {
		return fmt.Errorf("failed to load internal secret: %w", err)
	}
	app.internalSecret = internalSecret

	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.authn,
		app.internalSecret,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.DatasetService = app.datasetService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
