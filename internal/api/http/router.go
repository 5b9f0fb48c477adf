package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Tickets       *handlers.TicketsHandler
	Analytics     *handlers.AnalyticsHandler
	Admin         *handlers.AdminHandler
	AdminGuard    *auth.AdminGuard
	OrgMiddleware *auth.OrgMiddleware
}

// RegisterRoutes wires HTTP routes. Admin routes sit behind the basic-auth
// gateway; all org-scoped routes pass through the tenant-context middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	admin := app.Group("/admin", cfg.AdminGuard.Handle)
	admin.Get("/organizations", cfg.Admin.ListOrganizations)
	admin.Get("/organizations/:id", cfg.Admin.GetOrganization)
	admin.Get("/metrics", cfg.Admin.Metrics)

	org := app.Group("/orgs/:orgID", cfg.OrgMiddleware.Handle)
	org.Post("/tickets", cfg.Tickets.Create)
	org.Get("/tickets", cfg.Tickets.List)
	org.Get("/tickets/:id", cfg.Tickets.Get)
	org.Patch("/tickets/:id", cfg.Tickets.Update)
	org.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	org.Get("/tickets/:id/comments", cfg.Tickets.ListComments)
	org.Delete("/tickets/:id/comments/:commentID", cfg.Tickets.DeleteComment)
	org.Get("/tickets/:id/activity", cfg.Tickets.ListActivity)
	org.Get("/analytics/agents", cfg.Analytics.ByAgent)
	org.Get("/analytics/outcomes", cfg.Analytics.Outcomes)
}
