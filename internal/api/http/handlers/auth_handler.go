package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/service"
)

// AuthHandler issues tokens.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login. The token is the plain-text body.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bind(c, &req); err != nil {
		return plainError(c, err)
	}

	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return plainError(c, err)
	}
	return c.Status(fiber.StatusOK).SendString(token)
}
