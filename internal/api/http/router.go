package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/http/handlers"
	"github.com/beyond-borders/ops-console/internal/auth"
	"github.com/beyond-borders/ops-console/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Bookings    *handlers.BookingsHandler
	Tasks       *handlers.TasksHandler
	Driver      *handlers.DriverHandler
	Staff       *handlers.StaffHandler
	Payments    *handlers.PaymentsHandler
	Subscribers *handlers.SubscribersHandler
	Overview    *handlers.OverviewHandler
	Gate        *auth.Gate
}

// RegisterRoutes wires HTTP routes. The admin console sections require
// admin or super; staff account management is super only; the driver
// dashboard is driver only.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/sign-in", cfg.Auth.SignIn)

	authed := app.Group("", cfg.Gate.Authenticate())
	authed.Post("/auth/sign-out", cfg.Auth.SignOut)
	authed.Get("/auth/me", cfg.Auth.Me)

	admin := authed.Group("/api", cfg.Gate.RequireRole(domain.RoleAdmin, domain.RoleSuper))
	admin.Get("/overview", cfg.Overview.Summary)

	admin.Get("/bookings", cfg.Bookings.List)
	admin.Post("/bookings", cfg.Bookings.Create)
	admin.Get("/bookings/:id", cfg.Bookings.Get)
	admin.Put("/bookings/:id", cfg.Bookings.Update)
	admin.Patch("/bookings/:id/status", cfg.Bookings.UpdateStatus)
	admin.Delete("/bookings/:id", cfg.Bookings.Delete)
	admin.Get("/clients", cfg.Bookings.Clients)

	admin.Get("/tasks", cfg.Tasks.List)
	admin.Post("/tasks", cfg.Tasks.Create)
	admin.Put("/tasks/:id", cfg.Tasks.Update)
	admin.Patch("/tasks/:id/status", cfg.Tasks.UpdateStatus)
	admin.Delete("/tasks/:id", cfg.Tasks.Delete)

	admin.Get("/drivers", cfg.Staff.ListDrivers)
	admin.Post("/drivers", cfg.Staff.CreateDriver)
	admin.Get("/drivers/:id", cfg.Staff.GetDriver)
	admin.Put("/drivers/:id", cfg.Staff.UpdateDriver)
	admin.Patch("/drivers/:id/status", cfg.Staff.SetDriverStatus)
	admin.Delete("/drivers/:id", cfg.Staff.DeleteDriver)

	admin.Get("/payments", cfg.Payments.List)
	admin.Post("/payments", cfg.Payments.Record)
	admin.Get("/payments/:id", cfg.Payments.Get)
	admin.Patch("/payments/:id/status", cfg.Payments.UpdateStatus)
	admin.Delete("/payments/:id", cfg.Payments.Delete)

	admin.Get("/subscribers", cfg.Subscribers.List)
	admin.Post("/subscribers", cfg.Subscribers.Add)
	admin.Delete("/subscribers/:id", cfg.Subscribers.Delete)

	super := authed.Group("/api/admins", cfg.Gate.RequireRole(domain.RoleSuper))
	super.Get("/", cfg.Staff.ListAdmins)
	super.Post("/", cfg.Staff.CreateAdmin)
	super.Delete("/:id", cfg.Staff.DeleteAdmin)

	me := authed.Group("/api/me", cfg.Gate.RequireRole(domain.RoleDriver))
	me.Get("/tasks", cfg.Driver.Tasks)
	me.Get("/stats", cfg.Driver.Stats)
	me.Patch("/tasks/:id/status", cfg.Driver.UpdateTaskStatus)
}
