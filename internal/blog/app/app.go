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

	httpapi "github.com/inkwellhq/inkwell/internal/blog/http"
	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/internal/blog/store/drivers/sqlite"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the blog service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	accessVerifier jwtx.Verifier

	tokenService        *service.TokenService
	authService         *service.AuthService
	userService         *service.UserService
	blogService         *service.BlogService
	commentService      *service.CommentService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "blog-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("blog service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down blog service...")

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

	app.logger.Info("blog service stopped")
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

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices builds the signers/verifiers and the business services.
func (app *Application) initServices() error {
	accessSigner, err := jwtx.NewSignerHMAC(app.cfg.Algorithm, []byte(app.cfg.AccessSecret))
	if err != nil {
		return fmt.Errorf("failed to create access signer: %w", err)
	}
	refreshSigner, err := jwtx.NewSignerHMAC(app.cfg.Algorithm, []byte(app.cfg.RefreshSecret))
	if err != nil {
		return fmt.Errorf("failed to create refresh signer: %w", err)
	}

	accessVerifier, err := jwtx.NewVerifierHMAC(
		[]byte(app.cfg.AccessSecret),
		app.cfg.AllowedAlgorithms,
		app.cfg.Issuer,
		[]string{jwtx.AudienceAccess},
	)
	if err != nil {
		return fmt.Errorf("failed to create access verifier: %w", err)
	}
	refreshVerifier, err := jwtx.NewVerifierHMAC(
		[]byte(app.cfg.RefreshSecret),
		app.cfg.AllowedAlgorithms,
		app.cfg.Issuer,
		[]string{jwtx.AudienceRefresh},
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh verifier: %w", err)
	}
	app.accessVerifier = accessVerifier

	app.tokenService = &service.TokenService{
		Store:           app.db,
		AccessSigner:    accessSigner,
		AccessVerifier:  accessVerifier,
		RefreshSigner:   refreshSigner,
		RefreshVerifier: refreshVerifier,
		Issuer:          app.cfg.Issuer,
		AccessTTL:       app.cfg.AccessTTL,
		RefreshTTL:      app.cfg.RefreshTTL,
	}

	app.authService = &service.AuthService{
		Store:       app.db,
		Tokens:      app.tokenService,
		AdminEmails: app.cfg.AdminEmails,
	}

	app.userService = &service.UserService{Store: app.db}
	app.blogService = service.NewBlogService(app.db)
	app.commentService = service.NewCommentService(app.db)

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.accessVerifier,
		BuildVersion,
		app.cfg.RefreshTTL,
		app.cfg.Env == "prod",
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.TokenService = app.tokenService
	router.UserService = app.userService
	router.BlogService = app.blogService
	router.CommentService = app.commentService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
