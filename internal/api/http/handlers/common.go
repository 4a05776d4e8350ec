package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/auth"
	"github.com/beyond-borders/ops-console/internal/events"
)

// actorFrom derives the event actor from the authenticated principal.
func actorFrom(c *fiber.Ctx) events.Actor {
	p := auth.CurrentPrincipal(c)
	if p == nil {
		return events.Actor{}
	}
	return events.Actor{StaffID: p.Account.ID, Role: p.Account.Role}
}
