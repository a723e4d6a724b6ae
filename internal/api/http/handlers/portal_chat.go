package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/credentials"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// ScreenView returns the GET handler of a role-gated page.
func (h *PortalHandler) ScreenView(s Screen) fiber.Handler {
	switch s.Kind {
	case KindUsers:
		return h.usersView(s)
	case KindProfile:
		return h.profileView(s)
	default:
		return h.chatView(s)
	}
}

func (h *PortalHandler) chatView(s Screen) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := h.view(c, s.Name, s.Title)
		v.Data = fiber.Map{
			"assistant": s.Assistant,
			"sessionId": h.subjectID(c),
		}
		return c.JSON(v)
	}
}

// SendMessage handles POST /chat/message. It uses the hard-logout path: an
// expired session is cleared and answered with SESSION_EXPIRED.
func (h *PortalHandler) SendMessage(c *fiber.Ctx) error {
	var form dto.ChatForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	reply, err := h.gateway.SendMessage(c.UserContext(), credentials.FromContext(c), form.Message, h.subjectID(c))
	if err != nil {
		return portalError(err)
	}
	return c.JSON(dto.ActionResult{Data: reply})
}

// UploadFile handles POST /chat/file with the multipart field "file".
func (h *PortalHandler) UploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", nil)
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("file cannot be read", nil)
	}
	defer file.Close()

	payload, err := h.gateway.UploadFile(c.UserContext(), credentials.FromContext(c), header.Filename, file)
	if err != nil {
		return portalError(err)
	}
	return c.JSON(dto.ActionResult{Message: payload.Message, Data: payload.Body})
}
