package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/events"
)

// NotificationService writes the audit trail for domain events. Task
// delivery to drivers happens inline in TaskService; these handlers
// only observe, so a broken handler can never block a write.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTaskCreated, n.logEvent)
	n.dispatcher.Subscribe(events.EventTaskReassigned, n.logEvent)
	n.dispatcher.Subscribe(events.EventTaskStatusChanged, n.logEvent)
	n.dispatcher.Subscribe(events.EventBookingCreated, n.logEvent)
	n.dispatcher.Subscribe(events.EventBookingCancelled, n.logEvent)
	n.dispatcher.Subscribe(events.EventPaymentRecorded, n.logEvent)
	n.dispatcher.Subscribe(events.EventDriverProvisioned, n.logEvent)
	n.dispatcher.Subscribe(events.EventAccountDeactivated, n.logEvent)
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info("domain event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.Actor.StaffID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload))
	return nil
}
