package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/dto"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// SubscribersHandler exposes newsletter subscribers.
type SubscribersHandler struct {
	subscribers *service.SubscriberService
}

// NewSubscribersHandler constructs handler.
func NewSubscribersHandler(subscribers *service.SubscriberService) *SubscribersHandler {
	return &SubscribersHandler{subscribers: subscribers}
}

// List handles GET /api/subscribers.
func (h *SubscribersHandler) List(c *fiber.Ctx) error {
	items, err := h.subscribers.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// Add handles POST /api/subscribers.
func (h *SubscribersHandler) Add(c *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	sub, err := h.subscribers.Add(c.UserContext(), req.Email, req.Source)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sub})
}

// Delete handles DELETE /api/subscribers/:id.
func (h *SubscribersHandler) Delete(c *fiber.Ctx) error {
	if err := h.subscribers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
