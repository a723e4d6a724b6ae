package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/events"
)

// NotificationService turns account events into outgoing emails. Delivery is
// a logged stub.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventUserStatusChanged, n.handleUserStatusChanged)
	n.dispatcher.Subscribe(events.EventRecoveryCodeIssued, n.handleRecoveryCodeIssued)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handlePasswordReset)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.String("role", string(payload.Role)))
	n.sendEmailNotificationStub(ctx, event, payload.Email, "Welcome to the assistant portal")
	return nil
}

func (n *NotificationService) handleUserStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("UserStatusChanged", zap.String("user_id", event.UserID), zap.Bool("status", payload.Status))
	subject := "Your account was disabled"
	if payload.Status {
		subject = "Your account was enabled"
	}
	n.sendEmailNotificationStub(ctx, event, payload.Email, subject)
	return nil
}

func (n *NotificationService) handleRecoveryCodeIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RecoveryCodeIssuedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("RecoveryCodeIssued",
		zap.String("user_id", event.UserID),
		zap.Time("expires_at", payload.ExpiresAt))
	n.sendEmailNotificationStub(ctx, event, payload.Email, "Your recovery code is "+payload.Code)
	return nil
}

func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("PasswordReset", zap.String("user_id", event.UserID))
	n.sendEmailNotificationStub(ctx, event, payload.Email, "Your password was changed")
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to, subject string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("event_type", string(event.Type)))
}
