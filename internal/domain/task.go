package domain

import "time"

// TaskStatus enumerates lifecycle states for driver tasks.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the known set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority enumerates task urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the known set.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityNormal, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a unit of driver work. CompletedAt is stamped exactly once, at
// the transition into completed; saves that keep the status at completed
// leave it untouched.
type Task struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	DriverID       string       `json:"driverId"`
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	ClientName     string       `json:"clientName,omitempty"`
	ClientPhone    string       `json:"clientPhone,omitempty"`
	PickupLocation string       `json:"pickupLocation"`
	Destination    string       `json:"destination"`
	Priority       TaskPriority `json:"priority"`
	Notes          string       `json:"notes,omitempty"`
	Status         TaskStatus   `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"`
}

// TaskStats aggregates a driver's workload for the detail view.
type TaskStats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"inProgress"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completionRate"`
}

// ComputeTaskStats tallies tasks by status.
func ComputeTaskStats(tasks []Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case TaskStatusPending:
			stats.Pending++
		case TaskStatusInProgress:
			stats.InProgress++
		case TaskStatusCompleted:
			stats.Completed++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = stats.Completed * 100 / stats.Total
	}
	return stats
}
