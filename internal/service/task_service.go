package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/config"
	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/events"
	"github.com/beyond-borders/ops-console/internal/notify"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// TaskService coordinates driver task workflows. Saves and
// notifications are deliberately decoupled: the task write is the
// operation, the driver notification is best effort, and every mutation
// reports whether the driver was actually told.
type TaskService struct {
	tasks      *cache.Collection[domain.Task]
	drivers    *cache.Collection[domain.DriverProfile]
	notifier   notify.Notifier
	dispatcher events.Dispatcher
	cfg        config.NotifyConfig
	logger     *zap.Logger
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	Tasks      *cache.Collection[domain.Task]
	Drivers    *cache.Collection[domain.DriverProfile]
	Notifier   notify.Notifier
	Dispatcher events.Dispatcher
}

// NewTaskService builds the service.
func NewTaskService(cfg config.NotifyConfig, deps TaskDependencies, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:      deps.Tasks,
		drivers:    deps.Drivers,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// TaskInput describes task create/update payloads.
type TaskInput struct {
	Title          string
	DriverID       string
	Date           string
	Time           string
	ClientName     string
	ClientPhone    string
	PickupLocation string
	Destination    string
	Priority       domain.TaskPriority
	Notes          string
	Status         domain.TaskStatus
}

func (in TaskInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.Title) == "" {
		details["title"] = "required"
	}
	if strings.TrimSpace(in.DriverID) == "" {
		details["driverId"] = "required"
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		details["date"] = "must be YYYY-MM-DD"
	}
	if !in.Priority.Valid() {
		details["priority"] = "unknown priority"
	}
	if !in.Status.Valid() {
		details["status"] = "unknown status"
	}
	if len(details) > 0 {
		return util.NewValidationError("invalid task", details)
	}
	return nil
}

// TaskView is a task decorated with the driver's display name for the
// console list.
type TaskView struct {
	domain.Task
	DriverName string `json:"driverName"`
}

// List returns all tasks joined with driver display names.
func (s *TaskService) List(ctx context.Context) ([]TaskView, error) {
	if err := s.tasks.Ensure(ctx); err != nil {
		return nil, util.ToDomainError(err)
	}
	names, err := cache.Join(ctx, s.drivers, func(d domain.DriverProfile) string { return d.Name })
	if err != nil {
		return nil, util.ToDomainError(err)
	}

	items := s.tasks.Items()
	views := make([]TaskView, 0, len(items))
	for _, t := range items {
		views = append(views, TaskView{
			Task:       t,
			DriverName: cache.Display(names, t.DriverID, "Unassigned"),
		})
	}
	return views, nil
}

// ListForDriver returns one driver's tasks, oldest scheduled date first.
func (s *TaskService) ListForDriver(ctx context.Context, driverID string) ([]domain.Task, error) {
	tasks, err := s.tasks.Query(ctx, docstore.Query{
		Where:   []docstore.Where{{Field: "driverId", Value: driverID}},
		OrderBy: &docstore.OrderBy{Field: "date"},
	})
	if err != nil {
		return nil, util.ToDomainError(err)
	}
	return tasks, nil
}

// StatsForDriver tallies one driver's workload.
func (s *TaskService) StatsForDriver(ctx context.Context, driverID string) (domain.TaskStats, error) {
	tasks, err := s.ListForDriver(ctx, driverID)
	if err != nil {
		return domain.TaskStats{}, err
	}
	return domain.ComputeTaskStats(tasks), nil
}

// Create stores a new task and attempts to notify the assigned driver.
// The returned bool reports whether the driver was notified; a failed
// send never fails the save.
func (s *TaskService) Create(ctx context.Context, actor events.Actor, in TaskInput) (domain.Task, bool, error) {
	if in.Priority == "" {
		in.Priority = domain.TaskPriorityNormal
	}
	if in.Status == "" {
		in.Status = domain.TaskStatusPending
	}
	if err := in.validate(); err != nil {
		return domain.Task{}, false, err
	}

	task := domain.Task{
		Title:          strings.TrimSpace(in.Title),
		DriverID:       in.DriverID,
		Date:           in.Date,
		Time:           in.Time,
		ClientName:     in.ClientName,
		ClientPhone:    in.ClientPhone,
		PickupLocation: in.PickupLocation,
		Destination:    in.Destination,
		Priority:       in.Priority,
		Notes:          in.Notes,
		Status:         in.Status,
	}
	if task.Status == domain.TaskStatusCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	created, err := s.tasks.Create(ctx, "", task)
	if err != nil {
		return domain.Task{}, false, util.ToDomainError(err)
	}

	notified := s.notifyDriver(ctx, created.DriverID, s.cfg.TaskAssignedTmpl, created)
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTaskCreated,
		EntityID:  created.ID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload: events.TaskCreatedPayload{
			DriverID: created.DriverID,
			Priority: created.Priority,
			Title:    created.Title,
			Notified: notified,
		},
	})
	return created, notified, nil
}

// Update merges changes into a task. The completion timestamp is
// stamped at the first transition into completed and never cleared or
// re-stamped afterwards, even if the task later leaves and re-enters
// the completed state.
func (s *TaskService) Update(ctx context.Context, actor events.Actor, id string, in TaskInput) (domain.Task, bool, error) {
	if err := in.validate(); err != nil {
		return domain.Task{}, false, err
	}

	current, err := s.tasks.Fetch(ctx, id)
	if err != nil {
		return domain.Task{}, false, mapStoreError("task", err)
	}

	fields := map[string]any{
		"title":          strings.TrimSpace(in.Title),
		"driverId":       in.DriverID,
		"date":           in.Date,
		"time":           in.Time,
		"clientName":     in.ClientName,
		"clientPhone":    in.ClientPhone,
		"pickupLocation": in.PickupLocation,
		"destination":    in.Destination,
		"priority":       string(in.Priority),
		"notes":          in.Notes,
		"status":         string(in.Status),
	}
	if in.Status == domain.TaskStatusCompleted && current.CompletedAt == nil {
		fields["completedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	updated, err := s.tasks.Update(ctx, id, fields)
	if err != nil {
		return domain.Task{}, false, mapStoreError("task", err)
	}

	reassigned := current.DriverID != updated.DriverID
	template := s.cfg.TaskUpdatedTmpl
	if reassigned {
		template = s.cfg.TaskAssignedTmpl
	}
	notified := s.notifyDriver(ctx, updated.DriverID, template, updated)

	if reassigned {
		s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTaskReassigned,
			EntityID:  updated.ID,
			Actor:     actor,
			Timestamp: time.Now().UTC(),
			Payload: events.TaskReassignedPayload{
				OldDriverID: current.DriverID,
				NewDriverID: updated.DriverID,
				Notified:    notified,
			},
		})
	}
	if current.Status != updated.Status {
		s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTaskStatusChanged,
			EntityID:  updated.ID,
			Actor:     actor,
			Timestamp: time.Now().UTC(),
			Payload: events.TaskStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: updated.Status,
			},
		})
	}
	return updated, notified, nil
}

// UpdateStatus moves a task between lifecycle states. When ownerID is
// non-empty the task must belong to that driver; drivers may only touch
// their own work.
func (s *TaskService) UpdateStatus(ctx context.Context, actor events.Actor, id string, status domain.TaskStatus, ownerID string) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, util.NewValidationError("unknown task status", map[string]any{"status": string(status)})
	}

	current, err := s.tasks.Fetch(ctx, id)
	if err != nil {
		return domain.Task{}, mapStoreError("task", err)
	}
	if ownerID != "" && current.DriverID != ownerID {
		return domain.Task{}, util.NewForbidden("task belongs to another driver")
	}

	fields := map[string]any{"status": string(status)}
	if status == domain.TaskStatusCompleted && current.CompletedAt == nil {
		fields["completedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	updated, err := s.tasks.Update(ctx, id, fields)
	if err != nil {
		return domain.Task{}, mapStoreError("task", err)
	}

	if current.Status != updated.Status {
		s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTaskStatusChanged,
			EntityID:  updated.ID,
			Actor:     actor,
			Timestamp: time.Now().UTC(),
			Payload: events.TaskStatusChangedPayload{
				OldStatus: current.Status,
				NewStatus: updated.Status,
			},
		})
	}
	return updated, nil
}

// Delete removes a task. Deleting a missing id succeeds.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return util.ToDomainError(err)
	}
	return nil
}

// DeleteForDriver removes every task assigned to the driver. Used when
// a driver account is deleted so no orphaned assignments survive.
func (s *TaskService) DeleteForDriver(ctx context.Context, driverID string) (int, error) {
	tasks, err := s.ListForDriver(ctx, driverID)
	if err != nil {
		return 0, err
	}
	for _, t := range tasks {
		if err := s.tasks.Delete(ctx, t.ID); err != nil {
			return 0, util.ToDomainError(err)
		}
	}
	return len(tasks), nil
}

func (s *TaskService) notifyDriver(ctx context.Context, driverID, template string, task domain.Task) bool {
	driver, err := s.drivers.Fetch(ctx, driverID)
	if err != nil {
		s.logger.Warn("driver lookup failed, skipping notification",
			zap.String("driver_id", driverID), zap.Error(err))
		return false
	}
	return s.notifier.Send(ctx, template, driver.Email, map[string]string{
		"driverName":  driver.Name,
		"taskTitle":   task.Title,
		"date":        task.Date,
		"time":        task.Time,
		"pickup":      task.PickupLocation,
		"destination": task.Destination,
	})
}
