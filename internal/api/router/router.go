package router

import (
	"context"
	"net/http"

	"github.com/flowvera/flowvera/internal/api/handlers"
	"github.com/flowvera/flowvera/internal/api/middleware"
	"github.com/flowvera/flowvera/internal/auth"
	"github.com/flowvera/flowvera/internal/config"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Admin        *handlers.AdminHandler
	Settings     *handlers.SettingsHandler
	Project      *handlers.ProjectHandler
	CRM          *handlers.CRMHandler
	Subscription *handlers.SubscriptionHandler
	Billing      *handlers.BillingHandler
}

// New builds the HTTP handler. ctx bounds background work such as rate
// limiter cleanup.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, authorizer *auth.Authorizer, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.FrontendCORS(cfg.Server.FrontendURL, cfg.IsProduction()))
	r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	// Operational endpoints
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/health", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(cfg.Auth.SecureCookies))

		// Public routes
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)
		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/subscriptions/plans", h.Subscription.Plans)

		// Signed by the payment processor instead of a user token
		r.Post("/stripe/webhook", h.Billing.Webhook)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authorizer))

			r.Get("/auth/profile", h.Auth.Profile)

			r.Route("/settings", func(r chi.Router) {
				r.Put("/profile", h.Settings.UpdateProfile)
				r.Put("/password", h.Settings.ChangePassword)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Project.List)
				r.Post("/", h.Project.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Project.Get)
					r.Patch("/", h.Project.Update)
					r.Delete("/", h.Project.Delete)

					r.Get("/tasks", h.Project.ListTasks)
					r.Post("/tasks", h.Project.CreateTask)
					r.Get("/tasks/{taskId}", h.Project.GetTask)
					r.Patch("/tasks/{taskId}", h.Project.UpdateTask)
					r.Delete("/tasks/{taskId}", h.Project.DeleteTask)
				})
			})

			r.Route("/crm", func(r chi.Router) {
				r.Route("/contacts", func(r chi.Router) {
					r.Get("/", h.CRM.ListContacts)
					r.Post("/", h.CRM.CreateContact)
					r.Get("/{id}", h.CRM.GetContact)
					r.Patch("/{id}", h.CRM.UpdateContact)
					r.Delete("/{id}", h.CRM.DeleteContact)
				})
				r.Route("/companies", func(r chi.Router) {
					r.Get("/", h.CRM.ListCompanies)
					r.Post("/", h.CRM.CreateCompany)
					r.Get("/{id}", h.CRM.GetCompany)
					r.Patch("/{id}", h.CRM.UpdateCompany)
					r.Delete("/{id}", h.CRM.DeleteCompany)
					r.Get("/{id}/contacts", h.CRM.ListCompanyContacts)
				})
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", h.Subscription.Get)
				r.Post("/", h.Subscription.Create)
				r.Put("/", h.Subscription.Update)
				r.Post("/cancel", h.Subscription.Cancel)
			})

			r.Post("/stripe/create-checkout-session", h.Billing.CreateCheckoutSession)
			r.Post("/stripe/create-portal-session", h.Billing.CreatePortalSession)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(authorizer, user.RoleAdmin))

			r.Get("/admin/users", h.Admin.ListUsers)
			r.Patch("/admin/users/{id}", h.Admin.UpdateUser)
			r.Delete("/admin/users/{id}", h.Admin.DeleteUser)
		})
	})

	return r
}
