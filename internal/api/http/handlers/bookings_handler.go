package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/dto"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// BookingsHandler exposes booking management for the admin console.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

func bookingInputFromRequest(req dto.BookingRequest) service.BookingInput {
	return service.BookingInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		PackageName: req.PackageName,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Travelers:   req.Travelers,
		Addon:       req.Addon,
		Status:      domain.BookingStatus(req.Status),
		Message:     req.Message,
	}
}

// List handles GET /api/bookings. An optional q parameter filters the
// cached snapshot.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	if term := c.Query("q"); term != "" {
		items, err := h.bookings.Search(c.UserContext(), term)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": items})
	}

	items, err := h.bookings.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	booking, err := h.bookings.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": booking})
}

// Create handles POST /api/bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	var req dto.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	booking, err := h.bookings.Create(c.UserContext(), actorFrom(c), bookingInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": booking})
}

// Update handles PUT /api/bookings/:id.
func (h *BookingsHandler) Update(c *fiber.Ctx) error {
	var req dto.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	booking, err := h.bookings.Update(c.UserContext(), actorFrom(c), c.Params("id"), bookingInputFromRequest(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": booking})
}

// UpdateStatus handles PATCH /api/bookings/:id/status.
func (h *BookingsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	booking, err := h.bookings.UpdateStatus(c.UserContext(), actorFrom(c), c.Params("id"), domain.BookingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": booking})
}

// Delete handles DELETE /api/bookings/:id.
func (h *BookingsHandler) Delete(c *fiber.Ctx) error {
	if err := h.bookings.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Clients handles GET /api/clients.
func (h *BookingsHandler) Clients(c *fiber.Ctx) error {
	groups, err := h.bookings.Clients(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": groups})
}
