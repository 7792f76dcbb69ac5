package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/venue-access-service/internal/api/http/handlers"
	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/rbac"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Venues         *handlers.VenueHandler
	Staff          *handlers.StaffHandler
	Events         *handlers.EventHandler
	AuthMiddleware *auth.AuthMiddleware
	Guard          *auth.Guard
	Metrics        fiber.Handler
	MetricsPath    string
}

// RegisterRoutes wires HTTP routes. Every venue-scoped route authorizes
// against the :venueId path parameter.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, cfg.Metrics)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/staff/login", cfg.Auth.StaffLogin)
	authGroup.Post("/invitations/accept", cfg.Auth.AcceptInvitation)

	authenticated := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authenticated.Post("/logout", cfg.Auth.Logout)
	authenticated.Post("/password/change", cfg.Auth.ChangePassword)

	venues := app.Group("/venues", cfg.AuthMiddleware.Handle)
	venues.Post("/", cfg.Guard.RequireAccount(), cfg.Venues.Create)

	g := cfg.Guard
	venue := venues.Group("/:" + auth.VenueParam)
	venue.Get("/", g.RequireMember(), cfg.Venues.Get)
	venue.Get("/me", g.RequireMember(), cfg.Staff.Me)
	venue.Put("/settings", g.RequirePermission(rbac.PermManageSettings), cfg.Venues.UpdateSettings)

	manageStaff := g.RequirePermission(rbac.PermManageStaff)
	venue.Post("/staff", manageStaff, cfg.Staff.Invite)
	venue.Get("/staff", manageStaff, cfg.Staff.List)
	venue.Get("/staff/:staffId", manageStaff, cfg.Staff.Get)
	venue.Patch("/staff/:staffId/role", manageStaff, cfg.Staff.ChangeRole)
	venue.Post("/staff/:staffId/deactivate", manageStaff, cfg.Staff.Deactivate)
	venue.Post("/staff/:staffId/reactivate", manageStaff, cfg.Staff.Reactivate)

	venue.Get("/events", g.RequirePermission(rbac.PermViewGuestList), cfg.Events.ListEvents)
	venue.Post("/events", g.RequirePermission(rbac.PermManageEvents), cfg.Events.CreateEvent)
	venue.Get("/events/:eventId", g.RequirePermission(rbac.PermViewGuestList), cfg.Events.GetEvent)
	venue.Put("/events/:eventId", g.RequirePermission(rbac.PermManageEvents), cfg.Events.UpdateEvent)
	venue.Put("/events/:eventId/rules", g.RequirePermission(rbac.PermEditEventRules), cfg.Events.UpdateRules)

	venue.Post("/incidents", g.RequirePermission(rbac.PermLogIncidents), cfg.Events.LogIncident)
	venue.Get("/incidents", g.RequirePermission(rbac.PermLogIncidents), cfg.Events.ListIncidents)
}
