package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
)

func newTaskInput(driverID string) TaskInput {
	return TaskInput{
		Title:          "Airport pickup",
		DriverID:       driverID,
		Date:           "2026-09-15",
		Time:           "14:30",
		PickupLocation: "DXB Terminal 3",
		Destination:    "Marina Hotel",
		Priority:       domain.TaskPriorityNormal,
		Status:         domain.TaskStatusPending,
	}
}

func TestTaskCompletionStampedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")

	task, _, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)
	require.Nil(t, task.CompletedAt, "pending task carries no completion time")

	done, err := f.taskSvc.UpdateStatus(ctx, testActor(), task.ID, domain.TaskStatusCompleted, "")
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	stamped := *done.CompletedAt

	// Reopening keeps the original completion time on the record.
	reopened, err := f.taskSvc.UpdateStatus(ctx, testActor(), task.ID, domain.TaskStatusInProgress, "")
	require.NoError(t, err)
	require.NotNil(t, reopened.CompletedAt)
	require.Equal(t, stamped, *reopened.CompletedAt)

	// Completing again does not move the stamp.
	again, err := f.taskSvc.UpdateStatus(ctx, testActor(), task.ID, domain.TaskStatusCompleted, "")
	require.NoError(t, err)
	require.Equal(t, stamped, *again.CompletedAt)
}

func TestTaskCompletedAtSurvivesFullUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")

	task, _, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)
	done, err := f.taskSvc.UpdateStatus(ctx, testActor(), task.ID, domain.TaskStatusCompleted, "")
	require.NoError(t, err)
	stamped := *done.CompletedAt

	in := newTaskInput("d1")
	in.Title = "Airport pickup (rescheduled)"
	in.Status = domain.TaskStatusCompleted
	updated, _, err := f.taskSvc.Update(ctx, testActor(), task.ID, in)
	require.NoError(t, err)
	require.Equal(t, stamped, *updated.CompletedAt)
}

func TestTaskCreateReportsNotified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")

	_, notified, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)
	require.True(t, notified)
	require.Equal(t, "driver-task-assigned", f.notifier.last.Template)
	require.Equal(t, "pat@example.com", f.notifier.last.Recipient)
}

func TestTaskSaveSurvivesNotificationFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.result = false
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")

	task, notified, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err, "a failed notification never fails the save")
	require.False(t, notified)
	require.NotEmpty(t, task.ID)

	saved, err := f.tasks.Fetch(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Airport pickup", saved.Title)
}

func TestTaskReassignmentNotifiesNewDriver(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")
	f.seedDriver(t, "d2", "Sam Driver", "sam@example.com")

	task, _, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)

	in := newTaskInput("d2")
	_, notified, err := f.taskSvc.Update(ctx, testActor(), task.ID, in)
	require.NoError(t, err)
	require.True(t, notified)
	require.Equal(t, "driver-task-assigned", f.notifier.last.Template)
	require.Equal(t, "sam@example.com", f.notifier.last.Recipient)
}

func TestTaskStatusOwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")
	f.seedDriver(t, "d2", "Sam Driver", "sam@example.com")

	task, _, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)

	_, err = f.taskSvc.UpdateStatus(ctx, testActor(), task.ID, domain.TaskStatusCompleted, "d2")
	require.Error(t, err)

	updated, err := f.taskSvc.UpdateStatus(ctx, testActor(), task.ID, domain.TaskStatusInProgress, "d1")
	require.NoError(t, err)
	require.Equal(t, domain.TaskStatusInProgress, updated.Status)
}

func TestTaskListJoinsDriverNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")

	task, _, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)

	// Deleting the driver afterwards must not break the list.
	orphan, _, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)
	_, err = f.tasks.Update(ctx, orphan.ID, map[string]any{"driverId": "gone"})
	require.NoError(t, err)

	views, err := f.taskSvc.List(ctx)
	require.NoError(t, err)

	byID := map[string]TaskView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	require.Equal(t, "Pat Driver", byID[task.ID].DriverName)
	require.Equal(t, "Unassigned", byID[orphan.ID].DriverName)
}

func TestTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := newTaskInput("")
	in.Date = "15-09-2026"
	_, _, err := f.taskSvc.Create(ctx, testActor(), in)
	require.Error(t, err)

	items, err := f.tasks.Query(ctx, docstore.Query{})
	require.NoError(t, err)
	require.Empty(t, items, "rejected task leaves no document")
}
