package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-crm-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-crm-service/internal/auth"
	"github.com/spec-kit/lead-crm-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Leads          *handlers.LeadsHandler
	Analytics      *handlers.AnalyticsHandler
	Policies       *handlers.PoliciesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	leads := app.Group("/leads", cfg.AuthMiddleware.Handle)
	leads.Get("/", cfg.Leads.List)
	leads.Post("/", cfg.Leads.Create)
	leads.Get("/:id", cfg.Leads.Get)
	leads.Patch("/:id", cfg.Leads.Update)
	leads.Patch("/:id/status", cfg.Leads.UpdateStatus)
	leads.Patch("/:id/archive", cfg.Leads.Archive)
	leads.Delete("/:id", cfg.Leads.Delete)

	analytics := app.Group("/analytics", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdmin, domain.RoleManager))
	analytics.Get("/report", cfg.Analytics.Report)

	policies := app.Group("/policies", cfg.AuthMiddleware.Handle)
	policies.Get("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Policies.List)
	policies.Put("/:key", auth.RequireAdmin(), cfg.Policies.Update)
}
