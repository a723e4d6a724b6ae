package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/service"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// RecoveryHandler exposes the unauthenticated password recovery flow.
type RecoveryHandler struct {
	auth *service.AuthService
}

// NewRecoveryHandler constructs handler.
func NewRecoveryHandler(authService *service.AuthService) *RecoveryHandler {
	return &RecoveryHandler{auth: authService}
}

// SendCode handles POST /users/send-recovery-code/:email.
func (h *RecoveryHandler) SendCode(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}
	if err := validate(&dto.RecoveryEmailForm{Email: email}); err != nil {
		return err
	}
	if err := h.auth.SendRecoveryCode(c.UserContext(), email); err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: nil, Message: "recovery code sent"})
}

// Verify handles POST /users/verify-recovery-code.
func (h *RecoveryHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRecoveryCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.VerifyRecoveryCode(c.UserContext(), req.Email, req.RecoveryCode); err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: true, Message: "recovery code verified"})
}

// Reset handles PUT /users/reset-password.
func (h *RecoveryHandler) Reset(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Email, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: nil, Message: "password reset"})
}
