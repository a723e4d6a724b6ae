package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/gateway"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

const profileUnavailable = "could not load the user profile"

// profileView loads the signed-in user. A missing profile renders the page
// with an error instead of placeholder data.
func (h *PortalHandler) profileView(s Screen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := h.view(c, s.Name, s.Title)

		tokenID := ""
		if claims, ok := h.claims(c); ok {
			tokenID = claims.ID
		}
		user, err := h.gateway.Profile(c.UserContext(), credentials.FromContext(c), tokenID)
		switch {
		case err == nil:
			v.Data = user
		case errors.Is(err, gateway.ErrUserNotFound):
			h.logger.Warn("profile not found", zap.String("user_id", tokenID))
			v.Error = profileUnavailable
		default:
			return portalError(err)
		}
		return c.JSON(v)
	}
}

// ChangePassword handles POST /profile/password. Success requires the
// backend to answer "result": null.
func (h *PortalHandler) ChangePassword(c *fiber.Ctx) error {
	var form dto.PasswordChangeForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	userID := h.subjectID(c)
	if userID == "" {
		return apperrors.NewUnauthorized("user id not available")
	}

	changed, err := h.gateway.ChangePassword(c.UserContext(), credentials.FromContext(c), gateway.ChangePasswordRequest{
		UserID:          userID,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
	if err != nil {
		return portalError(err)
	}
	if !changed {
		return apperrors.NewValidationError("current password is incorrect", map[string]any{"currentPassword": "is incorrect"})
	}
	return c.JSON(dto.ActionResult{Message: "password updated"})
}

// UpdateProfile handles PUT /profile. The role always comes from the token.
func (h *PortalHandler) UpdateProfile(c *fiber.Ctx) error {
	var form dto.ProfileForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	claims, ok := h.claims(c)
	if !ok {
		return apperrors.NewUnauthorized("session not available")
	}

	payload, err := h.gateway.UpdateUser(c.UserContext(), credentials.FromContext(c), gateway.UpdateUserRequest{
		ID:             h.subjectID(c),
		FullName:       form.FullName,
		FirstLastName:  form.FirstLastName,
		SecondLastName: form.SecondLastName,
		Phone:          form.Phone,
		Email:          form.Email,
		Role:           claims.Role,
	})
	if err != nil {
		return portalError(err)
	}
	return c.JSON(dto.ActionResult{Message: payload.Message, Data: payload.Result})
}
