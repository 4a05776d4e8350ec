package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/dto"
	"github.com/beyond-borders/ops-console/internal/auth"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// StaffHandler exposes driver management for admins and admin account
// management for supers.
type StaffHandler struct {
	staff     *service.StaffService
	provision *service.ProvisionService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staff *service.StaffService, provision *service.ProvisionService) *StaffHandler {
	return &StaffHandler{staff: staff, provision: provision}
}

// ListDrivers handles GET /api/drivers. An optional q parameter filters
// the cached snapshot.
func (h *StaffHandler) ListDrivers(c *fiber.Ctx) error {
	drivers, err := h.staff.SearchDrivers(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": drivers})
}

// GetDriver handles GET /api/drivers/:id.
func (h *StaffHandler) GetDriver(c *fiber.Ctx) error {
	detail, err := h.staff.GetDriver(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": detail})
}

// CreateDriver handles POST /api/drivers.
func (h *StaffHandler) CreateDriver(c *fiber.Ctx) error {
	return h.provisionAccount(c, domain.RoleDriver)
}

// UpdateDriver handles PUT /api/drivers/:id.
func (h *StaffHandler) UpdateDriver(c *fiber.Ctx) error {
	var req dto.DriverUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	profile, err := h.staff.UpdateDriver(c.UserContext(), c.Params("id"), service.DriverUpdateInput{
		Name:    req.Name,
		Phone:   req.Phone,
		License: req.License,
		Vehicle: req.Vehicle,
		Notes:   req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profile})
}

// DeleteDriver handles DELETE /api/drivers/:id.
func (h *StaffHandler) DeleteDriver(c *fiber.Ctx) error {
	if err := h.staff.DeleteDriver(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SetDriverStatus handles PATCH /api/drivers/:id/status.
func (h *StaffHandler) SetDriverStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	account, err := h.staff.SetAccountStatus(c.UserContext(), actorFrom(c), c.Params("id"), domain.AccountStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": account})
}

// ListAdmins handles GET /api/admins.
func (h *StaffHandler) ListAdmins(c *fiber.Ctx) error {
	admins, err := h.staff.ListAdmins(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": admins})
}

// CreateAdmin handles POST /api/admins.
func (h *StaffHandler) CreateAdmin(c *fiber.Ctx) error {
	return h.provisionAccount(c, domain.RoleAdmin)
}

// DeleteAdmin handles DELETE /api/admins/:id.
func (h *StaffHandler) DeleteAdmin(c *fiber.Ctx) error {
	p := auth.CurrentPrincipal(c)
	if err := h.staff.DeleteAdmin(c.UserContext(), actorFrom(c), p.Account.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *StaffHandler) provisionAccount(c *fiber.Ctx, role domain.Role) error {
	var req dto.ProvisionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	account, err := h.provision.Provision(c.UserContext(), actorFrom(c), service.ProvisionInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		License:  req.License,
		Vehicle:  req.Vehicle,
		Notes:    req.Notes,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": account})
}
