package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/beyond-borders/ops-console/internal/api/dto"
	"github.com/beyond-borders/ops-console/internal/auth"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// AuthHandler exposes console sign-in and sign-out.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignIn handles POST /auth/sign-in.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountResponse{
				ID:     result.Account.ID,
				Email:  result.Account.Email,
				Name:   result.Account.Name,
				Role:   string(result.Account.Role),
				Status: string(result.Account.Status),
			},
			"session": dto.SessionResponse{
				Token:     result.Session.Token,
				ExpiresAt: result.Session.ExpiresAt,
				Surface:   result.Surface,
			},
		},
	})
}

// SignOut handles POST /auth/sign-out.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	p := auth.CurrentPrincipal(c)
	if p == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	if err := h.auth.SignOut(c.UserContext(), p.Session.Token); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p := auth.CurrentPrincipal(c)
	return c.JSON(fiber.Map{
		"data": dto.AccountResponse{
			ID:     p.Account.ID,
			Email:  p.Account.Email,
			Name:   p.Account.Name,
			Role:   string(p.Account.Role),
			Status: string(p.Account.Status),
		},
	})
}
