// Package app wires configuration, storage, services and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/spendlog/spendlog/internal/auth/http"
	"github.com/spendlog/spendlog/internal/auth/mail"
	"github.com/spendlog/spendlog/internal/auth/obs"
	"github.com/spendlog/spendlog/internal/auth/service"
	"github.com/spendlog/spendlog/internal/auth/store"
	"github.com/spendlog/spendlog/internal/auth/store/drivers/sqlite"
	"github.com/spendlog/spendlog/pkg/cryptox"
	"github.com/spendlog/spendlog/pkg/jwtx"
	"github.com/spendlog/spendlog/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	tokens  *jwtx.Issuer
	mailer  mail.Sender
	metrics *obs.Metrics

	accountService *service.AccountService
	sessionService *service.SessionService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: obs.New(),
	}

	if err := app.initTokens(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	mailer, err := mail.NewSender(mail.Config{
		Provider:     cfg.EmailProvider,
		FromName:     cfg.EmailFromName,
		FromAddress:  cfg.EmailFromAddress,
		APIURL:       cfg.EmailAPIURL,
		APIKey:       cfg.EmailAPIKey,
		SMTPHost:     cfg.EmailSMTPHost,
		SMTPPort:     cfg.EmailSMTPPort,
		SMTPUsername: cfg.EmailSMTPUsername,
		SMTPPassword: cfg.EmailSMTPPassword,
	}, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail sender: %w", err)
	}
	app.mailer = mailer

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
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

	app.logger.Info("auth service stopped")
	return nil
}

// initTokens builds the JWT issuer. Production refuses to start without a
// configured secret; development falls back to an ephemeral random one, which
// invalidates all sessions on restart.
func (app *Application) initTokens() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		if app.cfg.IsProd() {
			return errors.New("AUTH_JWT_SECRET must be set when ENV=prod")
		}

		generated, err := cryptox.GenerateSecret(cryptox.SecretSize)
		if err != nil {
			return fmt.Errorf("failed to generate ephemeral signing secret: %w", err)
		}
		secret = generated
		app.logger.Warn("AUTH_JWT_SECRET not set, using an ephemeral secret; sessions will not survive restarts")
	}

	tokens, err := jwtx.NewIssuer(
		[]byte(secret),
		app.cfg.Issuer,
		app.cfg.Audience,
		app.cfg.AccessTTL,
		app.cfg.RefreshTTL,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	app.tokens = tokens
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes the business logic services.
func (app *Application) initServices() {
	app.accountService = &service.AccountService{
		Store:         app.db,
		Mailer:        app.mailer,
		BaseURL:       app.cfg.BaseURL,
		ResetTokenTTL: app.cfg.ResetTokenTTL,
		EmailTimeout:  app.cfg.EmailTimeout,
	}

	app.sessionService = &service.SessionService{
		Store:        app.db,
		Tokens:       app.tokens,
		FailureDelay: app.cfg.LoginFailureDelay,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.metrics,
		app.logger,
	)

	router.AccountService = app.accountService
	router.SessionService = app.sessionService
	router.SecureCookies = app.cfg.IsProd()
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
