package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdesk/helpdesk/internal/api/http/handlers"
	"github.com/opsdesk/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Tags           *handlers.TagsHandler
	Sla            *handlers.SlaHandler
	TimeEntries    *handlers.TimeEntriesHandler
	Portal         *handlers.PortalHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The /tickets/tags and /tickets/sla
// groups are registered before /tickets/:id so the static segments win
// route matching.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.LoginUser)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireUser())

	tags := tickets.Group("/tags")
	tags.Get("/", cfg.Tags.List)
	tags.Post("/", cfg.Tags.Create)
	tags.Delete("/:id", cfg.Tags.Delete)

	sla := tickets.Group("/sla")
	sla.Get("/policies", cfg.Sla.ListPolicies)
	sla.Post("/policies", cfg.Sla.CreatePolicy)
	sla.Put("/policies/:id", cfg.Sla.UpdatePolicy)
	sla.Delete("/policies/:id", cfg.Sla.DeletePolicy)
	sla.Post("/apply/:ticketId", cfg.Sla.ApplyToTicket)

	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Get("/:id/activities", cfg.Tickets.Activities)
	tickets.Post("/:id/tags/:tagId", cfg.Tickets.AssignTag)
	tickets.Delete("/:id/tags/:tagId", cfg.Tickets.RemoveTag)

	timeEntries := app.Group("/time-entries", cfg.AuthMiddleware.Handle, auth.RequireUser())
	timeEntries.Post("/", cfg.TimeEntries.Create)
	timeEntries.Put("/:id", cfg.TimeEntries.Update)

	app.Post("/customer-portal/auth/login", cfg.Auth.LoginContact)

	portal := app.Group("/customer-portal/tickets", cfg.AuthMiddleware.Handle, auth.RequireContact())
	portal.Get("/", cfg.Portal.ListTickets)
	portal.Post("/", cfg.Portal.CreateTicket)
	portal.Get("/:id", cfg.Portal.GetTicket)
	portal.Post("/:id/comments", cfg.Portal.AddComment)
}
