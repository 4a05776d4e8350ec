package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/dto"
	"github.com/beyond-borders/ops-console/internal/auth"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// DriverHandler exposes the driver's own dashboard: their task list,
// workload stats and status updates on their own work only.
type DriverHandler struct {
	tasks *service.TaskService
}

// NewDriverHandler constructs handler.
func NewDriverHandler(tasks *service.TaskService) *DriverHandler {
	return &DriverHandler{tasks: tasks}
}

// Tasks handles GET /api/me/tasks.
func (h *DriverHandler) Tasks(c *fiber.Ctx) error {
	p := auth.CurrentPrincipal(c)
	tasks, err := h.tasks.ListForDriver(c.UserContext(), p.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tasks})
}

// Stats handles GET /api/me/stats.
func (h *DriverHandler) Stats(c *fiber.Ctx) error {
	p := auth.CurrentPrincipal(c)
	stats, err := h.tasks.StatsForDriver(c.UserContext(), p.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// UpdateTaskStatus handles PATCH /api/me/tasks/:id/status. The task
// must belong to the signed-in driver.
func (h *DriverHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	p := auth.CurrentPrincipal(c)
	task, err := h.tasks.UpdateStatus(c.UserContext(), actorFrom(c), c.Params("id"), domain.TaskStatus(req.Status), p.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": task})
}
