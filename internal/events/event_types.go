package events

import (
	"time"

	"github.com/beyond-borders/ops-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated        EventType = "task_created"
	EventTaskReassigned     EventType = "task_reassigned"
	EventTaskStatusChanged  EventType = "task_status_changed"
	EventBookingCreated     EventType = "booking_created"
	EventBookingCancelled   EventType = "booking_cancelled"
	EventPaymentRecorded    EventType = "payment_recorded"
	EventDriverProvisioned  EventType = "driver_provisioned"
	EventAccountDeactivated EventType = "account_deactivated"
)

// Actor identifies the staff member whose action emitted an event.
type Actor struct {
	StaffID string      `json:"staff_id"`
	Role    domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	DriverID string              `json:"driver_id"`
	Priority domain.TaskPriority `json:"priority"`
	Title    string              `json:"title"`
	Notified bool                `json:"notified"`
}

// TaskReassignedPayload payload.
type TaskReassignedPayload struct {
	OldDriverID string `json:"old_driver_id"`
	NewDriverID string `json:"new_driver_id"`
	Notified    bool   `json:"notified"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// BookingCancelledPayload payload.
type BookingCancelledPayload struct {
	ClientEmail string `json:"client_email"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
}

// DriverProvisionedPayload payload.
type DriverProvisionedPayload struct {
	Email string `json:"email"`
}
