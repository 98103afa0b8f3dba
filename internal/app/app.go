// Package app wires configuration, storage, services and the HTTP server into
// a runnable application.
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

	"github.com/socialmaster/socialmaster/internal/service"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/internal/store/drivers/sqlite"
	"github.com/socialmaster/socialmaster/internal/web"
	"github.com/socialmaster/socialmaster/pkg/cryptox"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the web service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	authService         *service.AuthService
	userService         *service.UserService
	configService       *service.ConfigService
	auditService        *service.AuditService
	rateLimitService    *service.RateLimitService
	clientService       *service.ClientService
	postService         *service.PostService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *web.Router
}

// New creates an Application with all dependencies initialized: database
// migrated, config seeded and the bootstrap admin ensured.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "socialmaster",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	ctx := slogx.WithContext(context.Background(), app.logger)
	err := service.Bootstrap(ctx, app.db, app.configService, service.BootstrapParams{
		AdminUsername: cfg.AdminUsername,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("socialmaster starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the HTTP server, housekeeping and the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down socialmaster...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("socialmaster stopped")
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

func (app *Application) initServices() {
	app.rateLimitService = &service.RateLimitService{Store: app.db}
	app.authService = &service.AuthService{
		Store:       app.db,
		RateLimiter: app.rateLimitService,
		SessionTTL:  app.cfg.SessionTTL,
	}
	app.userService = &service.UserService{Store: app.db, RateLimiter: app.rateLimitService}
	app.configService = &service.ConfigService{Store: app.db}
	app.auditService = &service.AuditService{Store: app.db}
	app.clientService = &service.ClientService{Store: app.db}
	app.postService = &service.PostService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := web.NewRouter(BuildVersion, app.db, app.logger)
	router.AuthService = app.authService
	router.UserService = app.userService
	router.ConfigService = app.configService
	router.AuditService = app.auditService
	router.ClientService = app.clientService
	router.PostService = app.postService
	router.CookieSecure = app.cfg.CookieSecure
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
