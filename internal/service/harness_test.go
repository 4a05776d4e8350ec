package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/config"
	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/events"
	"github.com/beyond-borders/ops-console/internal/identity"
)

// fakeNotifier records sends and answers with a canned result.
type fakeNotifier struct {
	result bool
	sends  atomic.Int64
	last   struct {
		Template  string
		Recipient string
	}
}

func (f *fakeNotifier) Send(_ context.Context, templateID, recipient string, _ map[string]string) bool {
	f.sends.Add(1)
	f.last.Template = templateID
	f.last.Recipient = recipient
	return f.result
}

type fixture struct {
	store       docstore.Store
	accounts    *cache.Collection[domain.StaffAccount]
	drivers     *cache.Collection[domain.DriverProfile]
	bookings    *cache.Collection[domain.Booking]
	tasks       *cache.Collection[domain.Task]
	payments    *cache.Collection[domain.Payment]
	subscribers *cache.Collection[domain.Subscriber]
	notifier    *fakeNotifier
	dispatcher  events.Dispatcher

	taskSvc     *TaskService
	bookingSvc  *BookingService
	paymentSvc  *PaymentService
	staffSvc    *StaffService
	overviewSvc *OverviewService
	subSvc      *SubscriberService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := docstore.NewMemory()

	f := &fixture{
		store:       store,
		accounts:    cache.NewCollection(store, docstore.CollectionStaffAccounts, func(a domain.StaffAccount) string { return a.ID }),
		drivers:     cache.NewCollection(store, docstore.CollectionDrivers, func(d domain.DriverProfile) string { return d.ID }),
		bookings:    cache.NewCollection(store, docstore.CollectionBookings, func(b domain.Booking) string { return b.ID }),
		tasks:       cache.NewCollection(store, docstore.CollectionTasks, func(tk domain.Task) string { return tk.ID }),
		payments:    cache.NewCollection(store, docstore.CollectionPayments, func(p domain.Payment) string { return p.ID }),
		subscribers: cache.NewCollection(store, docstore.CollectionSubscribers, func(s domain.Subscriber) string { return s.ID }),
		notifier:    &fakeNotifier{result: true},
		dispatcher:  events.NewInMemoryDispatcher(),
	}

	cfg := config.NotifyConfig{TaskAssignedTmpl: "driver-task-assigned", TaskUpdatedTmpl: "driver-task-updated"}
	f.taskSvc = NewTaskService(cfg, TaskDependencies{
		Tasks: f.tasks, Drivers: f.drivers, Notifier: f.notifier, Dispatcher: f.dispatcher,
	}, logger)
	f.bookingSvc = NewBookingService(f.bookings, f.dispatcher, logger)
	f.paymentSvc = NewPaymentService(f.payments, f.bookings, f.dispatcher, logger)
	f.staffSvc = NewStaffService(StaffDependencies{
		Accounts: f.accounts, Drivers: f.drivers, Tasks: f.taskSvc, Dispatcher: f.dispatcher,
	}, logger)
	f.overviewSvc = NewOverviewService(OverviewDependencies{
		Bookings: f.bookings, Tasks: f.tasks, Payments: f.payments, Subscribers: f.subscribers, Drivers: f.drivers,
	}, logger)
	f.subSvc = NewSubscriberService(f.subscribers, logger)
	return f
}

func (f *fixture) seedDriver(t *testing.T, id, name, email string) {
	t.Helper()
	ctx := context.Background()
	err := f.store.Set(ctx, docstore.CollectionDrivers, id, map[string]any{
		"name": name, "email": email, "phone": "+971 50 123 4567", "status": "active",
	})
	require.NoError(t, err)
	err = f.store.Set(ctx, docstore.CollectionStaffAccounts, id, map[string]any{
		"name": name, "email": email, "role": "driver", "status": "active",
	})
	require.NoError(t, err)
}

func (f *fixture) seedBooking(t *testing.T, fields map[string]any) string {
	t.Helper()
	id, err := f.store.Add(context.Background(), docstore.CollectionBookings, fields)
	require.NoError(t, err)
	return id
}

func testActor() events.Actor {
	return events.Actor{StaffID: "admin-1", Role: domain.RoleAdmin}
}

func newTestIdentity() *identity.Context {
	return identity.NewContext(identity.NewMemoryProvider(4, 6), identity.NewMemorySessions(), identity.NewTokenManager("test-secret", 60))
}
