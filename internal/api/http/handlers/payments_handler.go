package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/dto"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// PaymentsHandler exposes payment records for the admin console.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// List handles GET /api/payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	items, err := h.payments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get handles GET /api/payments/:id.
func (h *PaymentsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.payments.Detail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": detail})
}

// Record handles POST /api/payments.
func (h *PaymentsHandler) Record(c *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	payment, err := h.payments.Record(c.UserContext(), actorFrom(c), service.PaymentInput{
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.Method,
		Date:      req.Date,
		Reference: req.Reference,
		Status:    domain.PaymentStatus(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": payment})
}

// UpdateStatus handles PATCH /api/payments/:id/status.
func (h *PaymentsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	payment, err := h.payments.UpdateStatus(c.UserContext(), c.Params("id"), domain.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": payment})
}

// Delete handles DELETE /api/payments/:id.
func (h *PaymentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.payments.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
