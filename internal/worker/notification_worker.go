package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Warn("notification service not configured; account emails disabled")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}
