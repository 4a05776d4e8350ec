package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beyond-borders/ops-console/internal/domain"
)

func TestOverviewSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedDriver(t, "d1", "Pat Driver", "pat@example.com")

	bookingID := f.seedBooking(t, map[string]any{
		"firstName": "John", "lastName": "Carter", "email": "john@example.com",
		"packageName": "Desert Safari", "status": "confirmed", "startDate": "2099-01-01", "travelers": 2,
	})
	f.seedBooking(t, map[string]any{
		"firstName": "Maria", "lastName": "Lopez", "email": "maria@example.com",
		"packageName": "City Tour", "status": "pending", "startDate": "2026-09-03", "travelers": 1,
	})
	// Repeat customer: same email must not inflate the client count.
	f.seedBooking(t, map[string]any{
		"firstName": "John", "lastName": "Carter", "email": "John@Example.com",
		"packageName": "Mountain Trek", "status": "cancelled", "startDate": "2026-10-01", "travelers": 4,
	})

	_, err := f.paymentSvc.Record(ctx, testActor(), paymentInput(bookingID, 800))
	require.NoError(t, err)
	pending := paymentInput(bookingID, 300)
	pending.Status = domain.PaymentStatusPending
	_, err = f.paymentSvc.Record(ctx, testActor(), pending)
	require.NoError(t, err)

	task, _, err := f.taskSvc.Create(ctx, testActor(), newTaskInput("d1"))
	require.NoError(t, err)
	_, err = f.taskSvc.UpdateStatus(ctx, testActor(), task.ID, domain.TaskStatusCompleted, "")
	require.NoError(t, err)

	_, err = f.subSvc.Add(ctx, "reader@example.com", "footer-form")
	require.NoError(t, err)

	out, err := f.overviewSvc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, out.TotalBookings)
	require.Equal(t, 1, out.PendingBookings)
	require.Equal(t, 1, out.UpcomingBookings)
	require.Equal(t, 2, out.UniqueClients, "repeat emails count once")
	require.Equal(t, 1, out.ActiveDrivers)
	require.Equal(t, 1, out.TaskStats.Completed)
	require.InDelta(t, 800, out.TotalRevenue, 0.001, "only paid payments count as revenue")
	require.Equal(t, 1, out.Subscribers)
	require.Len(t, out.RecentBookings, 3)
}

func TestOverviewRecentBookingsCappedAtFive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ids := make([]string, 0, 6)
	for _, name := range []string{"Ana", "Ben", "Cleo", "Dev", "Eli", "Fay"} {
		ids = append(ids, f.seedBooking(t, map[string]any{
			"firstName": name, "lastName": "Tester", "email": name + "@example.com",
			"packageName": "City Tour", "status": "pending", "startDate": "2026-09-03", "travelers": 1,
		}))
	}

	out, err := f.overviewSvc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, out.RecentBookings, 5)

	seen := make(map[string]bool, len(out.RecentBookings))
	for _, b := range out.RecentBookings {
		seen[b.ID] = true
	}
	require.False(t, seen[ids[0]], "oldest booking drops off the strip")
	require.True(t, seen[ids[5]], "newest booking leads the strip")
	require.Equal(t, ids[5], out.RecentBookings[0].ID)
}

func TestSubscriberDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.subSvc.Add(ctx, "Reader@Example.com", "footer-form")
	require.NoError(t, err)
	_, err = f.subSvc.Add(ctx, "reader@example.com", "popup")
	require.Error(t, err)

	items, err := f.subSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
