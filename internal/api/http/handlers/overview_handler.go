package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/service"
)

// OverviewHandler serves the dashboard landing numbers.
type OverviewHandler struct {
	overview *service.OverviewService
}

// NewOverviewHandler constructs handler.
func NewOverviewHandler(overview *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{overview: overview}
}

// Summary handles GET /api/overview.
func (h *OverviewHandler) Summary(c *fiber.Ctx) error {
	out, err := h.overview.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": out})
}
