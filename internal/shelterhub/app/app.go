// Package app wires the shelterhub service together: config, logging,
// the identity client and the HTTP server.
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

	httpapi "github.com/adoptly/adoptly/internal/shelterhub/http"
	"github.com/adoptly/adoptly/pkg/cookiex"
	"github.com/adoptly/adoptly/pkg/httpx"
	"github.com/adoptly/adoptly/pkg/identitysdk"
	"github.com/adoptly/adoptly/pkg/internalx"
	"github.com/adoptly/adoptly/pkg/jwtx"
	"github.com/adoptly/adoptly/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the shelterhub service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "shelterhub",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initHTTP(); err != nil {
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("shelterhub service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down shelterhub service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.logger.Info("shelterhub service stopped")
	return nil
}

func (app *Application) initHTTP() error {
	verifier, err := jwtx.NewVerifier([]byte(app.cfg.JWTSecret), app.cfg.TokenIssuer, app.cfg.TokenAudience)
	if err != nil {
		return fmt.Errorf("failed to build token verifier: %w", err)
	}

	factory, err := internalx.NewFactory(app.cfg.InternalAPIKey, "shelterhub")
	if err != nil {
		return fmt.Errorf("failed to build internal client factory: %w", err)
	}
	identity := identitysdk.NewClient(app.cfg.IdentityURL, factory.Client())

	cookies := cookiex.NewManager(app.cfg.RootDomain, app.cfg.AccessTokenTTL, app.cfg.RefreshTokenTTL)
	authn := httpx.NewAuthenticator(verifier, app.cfg.InternalAPIKey, app.cfg.LoginURL)

	router := httpapi.NewRouter(
		verifier,
		authn,
		cookies,
		identity,
		app.cfg.LoginURL,
		BuildVersion,
		app.logger,
	)
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
