package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/domain"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// Responder produces the assistant's answer to a chat message.
type Responder interface {
	Reply(ctx context.Context, sessionID, input string) (string, error)
}

// EchoResponder answers by echoing the input. It stands in for the workflow engine.
type EchoResponder struct{}

func (EchoResponder) Reply(_ context.Context, _ string, input string) (string, error) {
	return fmt.Sprintf("You said: %s", input), nil
}

// UploadedFile describes an accepted chat attachment.
type UploadedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ChatService relays chat messages and attachments.
type ChatService struct {
	responder       Responder
	allowedSuffixes []string
	logger          *zap.Logger
}

// NewChatService builds the service.
func NewChatService(responder Responder, allowedSuffixes []string, logger *zap.Logger) *ChatService {
	if responder == nil {
		responder = EchoResponder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{responder: responder, allowedSuffixes: allowedSuffixes, logger: logger}
}

// Message answers input within sessionID.
func (s *ChatService) Message(ctx context.Context, sessionID, input string) (*domain.ChatReply, error) {
	if strings.TrimSpace(input) == "" {
		return nil, apperrors.NewValidationError("chatInput is required", nil)
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.NewValidationError("sessionId is required", nil)
	}
	text, err := s.responder.Reply(ctx, sessionID, input)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.ChatReply{Text: text}, nil
}

// Upload accepts an attachment by extension.
func (s *ChatService) Upload(_ context.Context, userID, name string, size int64) (*UploadedFile, error) {
	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, suffix := range s.allowedSuffixes {
		if ext == suffix {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewValidationError("file type not allowed", map[string]any{
			"file":    name,
			"allowed": s.allowedSuffixes,
		})
	}

	file := &UploadedFile{ID: uuid.NewString(), Name: filepath.Base(name), Size: size}
	s.logger.Info("chat file received",
		zap.String("user_id", userID),
		zap.String("file_id", file.ID),
		zap.String("name", file.Name),
		zap.Int64("size", size))
	return file, nil
}
