// Package app wires the identity service together: config, logging,
// database, auth service, HTTP server and housekeeping.
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

	httpapi "github.com/adoptly/adoptly/internal/identity/http"
	"github.com/adoptly/adoptly/internal/identity/provider/local"
	"github.com/adoptly/adoptly/internal/identity/service"
	"github.com/adoptly/adoptly/internal/identity/store"
	"github.com/adoptly/adoptly/internal/identity/store/drivers/sqlite"
	"github.com/adoptly/adoptly/pkg/cookiex"
	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/jwtx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService *service.Auth

	server *http.Server
	router *httpapi.Router

	stopHousekeeping chan struct{}
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		stopHousekeeping: make(chan struct{}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	go app.housekeeping()

	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	close(app.stopHousekeeping)

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

func (app *Application) initHTTP() error {
	secret := []byte(app.cfg.JWTSecret)

	signer, err := jwtx.NewSigner(secret, app.cfg.TokenIssuer, app.cfg.TokenAudience, app.cfg.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to build token signer: %w", err)
	}
	verifier, err := jwtx.NewVerifier(secret, app.cfg.TokenIssuer, app.cfg.TokenAudience)
	if err != nil {
		return fmt.Errorf("failed to build token verifier: %w", err)
	}

	app.authService = service.NewAuth(app.db, local.New(app.db), signer, app.cfg.RefreshTokenTTL)

	cookies := cookiex.NewManager(app.cfg.RootDomain, app.cfg.AccessTokenTTL, app.cfg.RefreshTokenTTL)
	authn := httpx.NewAuthenticator(verifier, app.cfg.InternalAPIKey, app.cfg.LoginURL)

	router := httpapi.NewRouter(
		verifier,
		authn,
		cookies,
		app.cfg.LoginURL,
		BuildVersion,
		app.db,
		app.logger,
	)
	router.AuthService = app.authService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// housekeeping sweeps expired refresh token rows on a timer.
func (app *Application) housekeeping() {
	ticker := time.NewTicker(app.cfg.HousekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := app.authService.CleanupExpired(ctx); err != nil {
				app.logger.Error("expired token sweep failed", "error", err)
			}
			cancel()
		case <-app.stopHousekeeping:
			return
		}
	}
}
