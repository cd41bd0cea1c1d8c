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

	httpapi "github.com/aussiebroadwan/accounts/internal/accounts/http"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/settings"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the accounts service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db           store.Store
	keys         *jwtx.KeySet
	verifier     *jwtx.Verifier
	keyRefresher *KeyRefresher // nil unless keys come from ACCOUNTS_JWKS_URL

	// Services
	userService         *service.UserService
	verificationService *service.VerificationService
	addressService      *service.AddressService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accounts-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := app.initKeys(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()
	if app.keyRefresher != nil {
		app.keyRefresher.Start()
	}

	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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
	app.logger.Info("shutting down accounts service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()
	if app.keyRefresher != nil {
		app.keyRefresher.Stop()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(app.cfg.DatabaseFile)
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

// initKeys loads the issuer's verification keys.
func (app *Application) initKeys(ctx context.Context) error {
	app.keys = jwtx.NewKeySet()

	if err := loadKeys(ctx, app.cfg, app.keys, &http.Client{Timeout: 10 * time.Second}); err != nil {
		return fmt.Errorf("failed to load verification keys: %w", err)
	}

	app.verifier = jwtx.NewVerifier(app.keys, jwtx.VerifyOptions{
		Issuer:   app.cfg.Issuer,
		Audience: app.cfg.Audience,
		Leeway:   30 * time.Second,
	})

	if app.cfg.JWKSFile == "" {
		app.keyRefresher = NewKeyRefresher(app.cfg, app.keys, app.logger)
	}

	app.logger.Info("verification keys loaded",
		"source", jwksSource(app.cfg),
		"issuer", app.cfg.Issuer,
	)
	return nil
}

func jwksSource(cfg Config) string {
	if cfg.JWKSFile != "" {
		return cfg.JWKSFile
	}
	return cfg.JWKSURL
}

// initServices initializes all business logic services.
func (app *Application) initServices(ctx context.Context) error {
	app.userService = &service.UserService{Store: app.db}
	app.verificationService = &service.VerificationService{
		Store:    app.db,
		Settings: settings.Env{},
		Sender: service.LogCodeSender{
			Logger: app.logger,
			Reveal: app.cfg.RevealCodes,
		},
	}
	app.addressService = &service.AddressService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	if app.cfg.SuperuserEmail != "" {
		ctx = slogx.WithContext(ctx, app.logger)
		u, created, err := app.userService.EnsureSuperuser(ctx, app.cfg.SuperuserEmail, app.cfg.SuperuserPassword)
		if err != nil {
			return fmt.Errorf("failed to ensure superuser: %w", err)
		}
		if created {
			app.logger.Info("superuser created", "user_id", u.ID, "email", u.Email)
		}
	}

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.UserService = app.userService
	router.VerificationService = app.verificationService
	router.AddressService = app.addressService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
