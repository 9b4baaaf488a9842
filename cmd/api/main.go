// Command api runs the Flowvera HTTP server.
//
//go:generate swag init -d ../.. -g cmd/api/main.go -o ../../docs
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowvera/flowvera/docs"
	"github.com/flowvera/flowvera/internal/api/handlers"
	"github.com/flowvera/flowvera/internal/api/router"
	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/billing"
	"github.com/flowvera/flowvera/internal/config"
	domainbilling "github.com/flowvera/flowvera/internal/domain/billing"
	"github.com/flowvera/flowvera/internal/domain/plan"
	"github.com/flowvera/flowvera/internal/email"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/flowvera/flowvera/internal/repository/postgres"
	"github.com/flowvera/flowvera/internal/services"
	"github.com/flowvera/flowvera/internal/worker"
	"github.com/flowvera/flowvera/migrations"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// @title Flowvera API
// @version 1.0
// @description Projects, tasks, CRM and subscription billing for small teams.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
		Service:    "flowvera-api",
		Version:    version,
	})
	log.WithFields(map[string]interface{}{
		"environment": cfg.Environment,
		"db_driver":   cfg.Database.Driver,
	}).Info("Starting Flowvera API")
	if cfg.InsecureJWTSecret {
		log.Warn("JWT_SECRET is not set; using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db, cfg.Database.Driver, migrations.Files, log); err != nil {
		return err
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)

	// Services
	catalog := plan.DefaultCatalog()
	userService := services.NewUserService(userRepo, auth.NewBcryptHasher(cfg.Auth.BCryptCost), log)
	ledger := services.NewSubscriptionService(subRepo, catalog, log)
	projectService := services.NewProjectService(projectRepo, taskRepo, log)
	crmService := services.NewCRMService(contactRepo, companyRepo, log)

	if created, err := userService.EnsureDefaultAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	} else if created {
		log.With("email", cfg.Bootstrap.AdminEmail).Warn("Created default admin account; change its password")
	}

	notifier := email.NewService(email.NewSender(cfg.Email, log), cfg.Email.From, cfg.Email.FromName, cfg.Server.FrontendURL, log)

	gateway, err := billing.NewGateway(cfg.Billing, cfg.Server.FrontendURL, ledger, log)
	if err != nil {
		return fmt.Errorf("failed to configure billing: %w", err)
	}
	events, closeEvents, err := billing.NewEventStore(ctx, cfg.Redis, cfg.Billing.EventTTL, log)
	if err != nil {
		return err
	}
	defer closeEvents()
	billingService := services.NewBillingService(gateway, events, ledger, userRepo, notifier, catalog, log)

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry, cfg.Auth.RefreshTokenExpiry)
	authService := services.NewAuthService(userService, ledger, notifier, issuer, log)
	authorizer := auth.NewAuthorizer(userRepo, cfg.Auth.JWTSecret)

	// Handlers
	val := validator.New()
	h := &router.Handlers{
		Health: handlers.NewHealthHandler(version, readinessChecks(db, events), log),
		Auth: handlers.NewAuthHandler(authService, userService, handlers.CookieConfig{
			Secure:     cfg.Auth.SecureCookies,
			AccessTTL:  cfg.Auth.AccessTokenExpiry,
			RefreshTTL: cfg.Auth.RefreshTokenExpiry,
		}, log, val),
		Admin:        handlers.NewAdminHandler(userService, log, val),
		Settings:     handlers.NewSettingsHandler(userService, log, val),
		Project:      handlers.NewProjectHandler(projectService, log, val),
		CRM:          handlers.NewCRMHandler(crmService, log, val),
		Subscription: handlers.NewSubscriptionHandler(ledger, log, val),
		Billing:      handlers.NewBillingHandler(billingService, log),
	}

	docs.SwaggerInfo.Version = version

	reminder := worker.NewTrialReminder(ledger, userRepo, notifier, cfg.Worker, log)
	if err := reminder.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(ctx, cfg, log, authorizer, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s (billing mode: %s)", srv.Addr, gateway.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}

func readinessChecks(db *sql.DB, events domainbilling.EventStore) map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"database": db.PingContext,
	}
	if p, ok := events.(interface{ Ping(context.Context) error }); ok {
		checks["redis"] = p.Ping
	}
	return checks
}
