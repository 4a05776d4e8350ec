package worker

import (
	"github.com/beyond-borders/ops-console/internal/service"
)

// StartNotificationWorker registers the audit-trail event handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
