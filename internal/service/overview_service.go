package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/pkg/util"
)

// recentBookingLimit caps the recent-bookings strip on the landing page.
const recentBookingLimit = 5

// OverviewService aggregates the dashboard landing numbers from the
// cached snapshots.
type OverviewService struct {
	bookings    *cache.Collection[domain.Booking]
	tasks       *cache.Collection[domain.Task]
	payments    *cache.Collection[domain.Payment]
	subscribers *cache.Collection[domain.Subscriber]
	drivers     *cache.Collection[domain.DriverProfile]
	logger      *zap.Logger
}

// OverviewDependencies bundles the snapshots the overview reads.
type OverviewDependencies struct {
	Bookings    *cache.Collection[domain.Booking]
	Tasks       *cache.Collection[domain.Task]
	Payments    *cache.Collection[domain.Payment]
	Subscribers *cache.Collection[domain.Subscriber]
	Drivers     *cache.Collection[domain.DriverProfile]
}

// NewOverviewService builds the service.
func NewOverviewService(deps OverviewDependencies, logger *zap.Logger) *OverviewService {
	return &OverviewService{
		bookings:    deps.Bookings,
		tasks:       deps.Tasks,
		payments:    deps.Payments,
		subscribers: deps.Subscribers,
		drivers:     deps.Drivers,
		logger:      logger,
	}
}

// Overview is the dashboard landing summary.
type Overview struct {
	TotalBookings    int              `json:"totalBookings"`
	PendingBookings  int              `json:"pendingBookings"`
	UpcomingBookings int              `json:"upcomingBookings"`
	UniqueClients    int              `json:"uniqueClients"`
	ActiveDrivers    int              `json:"activeDrivers"`
	TaskStats        domain.TaskStats `json:"taskStats"`
	TotalRevenue     float64          `json:"totalRevenue"`
	Subscribers      int              `json:"subscribers"`
	RecentBookings   []domain.Booking `json:"recentBookings"`
}

// Summary computes the landing numbers. Revenue counts paid payments
// only; upcoming bookings are confirmed trips starting today or later;
// clients are counted by distinct booking email.
func (s *OverviewService) Summary(ctx context.Context) (Overview, error) {
	for _, ensure := range []func(context.Context) error{
		s.bookings.Ensure, s.tasks.Ensure, s.payments.Ensure, s.subscribers.Ensure, s.drivers.Ensure,
	} {
		if err := ensure(ctx); err != nil {
			return Overview{}, util.ToDomainError(err)
		}
	}

	today := time.Now().UTC().Format(dateLayout)
	var out Overview

	bookings := s.bookings.Items()
	clients := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		out.TotalBookings++
		if b.Status == domain.BookingStatusPending {
			out.PendingBookings++
		}
		if b.Status == domain.BookingStatusConfirmed && b.StartDate >= today {
			out.UpcomingBookings++
		}
		if email := strings.ToLower(b.Email); email != "" {
			clients[email] = struct{}{}
		}
	}
	out.UniqueClients = len(clients)

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	if len(bookings) > recentBookingLimit {
		bookings = bookings[:recentBookingLimit]
	}
	out.RecentBookings = bookings
	for _, d := range s.drivers.Items() {
		if d.Status == domain.AccountStatusActive {
			out.ActiveDrivers++
		}
	}
	out.TaskStats = domain.ComputeTaskStats(s.tasks.Items())
	for _, p := range s.payments.Items() {
		if p.Status == domain.PaymentStatusPaid {
			out.TotalRevenue += p.Amount
		}
	}
	out.Subscribers = len(s.subscribers.Items())
	return out, nil
}
