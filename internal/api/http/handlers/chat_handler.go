package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/service"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// ChatHandler relays chat traffic to the assistant.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

// Message handles POST /n8n/message.
func (h *ChatHandler) Message(c *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	reply, err := h.chat.Message(c.UserContext(), req.SessionID, req.ChatInput)
	if err != nil {
		return err
	}
	return c.JSON(reply)
}

// File handles POST /n8n/file with the multipart field "file".
func (h *ChatHandler) File(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", nil)
	}
	principal, _ := auth.PrincipalFromContext(c)
	userID := ""
	if principal != nil {
		userID = principal.UserID
	}

	file, err := h.chat.Upload(c.UserContext(), userID, header.Filename, header.Size)
	if err != nil {
		return err
	}
	return c.JSON(dto.Envelope{Result: file, Message: "file uploaded"})
}
