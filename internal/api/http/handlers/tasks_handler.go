package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/dto"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// TasksHandler exposes task management for the admin console. Mutations
// report whether the assigned driver was notified so the console can
// show "saved and notified" against "saved, notification skipped".
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

func taskInputFromRequest(req dto.TaskRequest) service.TaskInput {
	return service.TaskInput{
		Title:          req.Title,
		DriverID:       req.DriverID,
		Date:           req.Date,
		Time:           req.Time,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		PickupLocation: req.PickupLocation,
		Destination:    req.Destination,
		Priority:       domain.TaskPriority(req.Priority),
		Notes:          req.Notes,
		Status:         domain.TaskStatus(req.Status),
	}
}

// List handles GET /api/tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	views, err := h.tasks.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": views})
}

// Create handles POST /api/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	task, notified, err := h.tasks.Create(c.UserContext(), actorFrom(c), taskInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"task": task, "notified": notified},
	})
}

// Update handles PUT /api/tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	task, notified, err := h.tasks.Update(c.UserContext(), actorFrom(c), c.Params("id"), taskInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"task": task, "notified": notified},
	})
}

// UpdateStatus handles PATCH /api/tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	task, err := h.tasks.UpdateStatus(c.UserContext(), actorFrom(c), c.Params("id"), domain.TaskStatus(req.Status), "")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": task})
}

// Delete handles DELETE /api/tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
