package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/beyond-borders/ops-console/internal/api/http"
	"github.com/beyond-borders/ops-console/internal/api/http/handlers"
	"github.com/beyond-borders/ops-console/internal/auth"
	"github.com/beyond-borders/ops-console/internal/cache"
	"github.com/beyond-borders/ops-console/internal/config"
	"github.com/beyond-borders/ops-console/internal/docstore"
	"github.com/beyond-borders/ops-console/internal/domain"
	"github.com/beyond-borders/ops-console/internal/events"
	"github.com/beyond-borders/ops-console/internal/identity"
	"github.com/beyond-borders/ops-console/internal/notify"
	"github.com/beyond-borders/ops-console/internal/observability"
	"github.com/beyond-borders/ops-console/internal/persistence"
	"github.com/beyond-borders/ops-console/internal/service"
	"github.com/beyond-borders/ops-console/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rds := persistence.NewRedis(cfg.Redis, logger)
	defer rds.Close()

	pool := pg.PoolHandle()

	var store docstore.Store
	if pool != nil {
		store = docstore.NewPostgres(pool)
	} else {
		store = docstore.NewMemory()
	}

	var provider identity.Provider
	if pool != nil {
		provider = identity.NewPostgresProvider(pool, cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLen)
	} else {
		provider = identity.NewMemoryProvider(cfg.Auth.BcryptCost, cfg.Auth.MinPasswordLen)
	}

	var sessions identity.SessionStore
	if client := rds.ClientHandle(); client != nil {
		sessions = identity.NewRedisSessions(client)
	} else {
		sessions = identity.NewMemorySessions()
	}

	tokens := identity.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes)

	// The primary context carries operator sessions; the secondary one
	// exists solely so account provisioning never displaces the
	// signed-in operator.
	primary := identity.NewContext(provider, sessions, tokens)
	secondary := identity.NewContext(provider, identity.NewMemorySessions(), tokens)

	accounts := cache.NewCollection(store, docstore.CollectionStaffAccounts, func(a domain.StaffAccount) string { return a.ID })
	drivers := cache.NewCollection(store, docstore.CollectionDrivers, func(d domain.DriverProfile) string { return d.ID })
	bookings := cache.NewCollection(store, docstore.CollectionBookings, func(b domain.Booking) string { return b.ID })
	tasks := cache.NewCollection(store, docstore.CollectionTasks, func(t domain.Task) string { return t.ID })
	payments := cache.NewCollection(store, docstore.CollectionPayments, func(p domain.Payment) string { return p.ID })
	subscribers := cache.NewCollection(store, docstore.CollectionSubscribers, func(s domain.Subscriber) string { return s.ID })

	dispatcher := events.NewInMemoryDispatcher()
	notifier := notify.NewWebhookNotifier(cfg.Notify, logger)

	authService := service.NewAuthService(primary, accounts, logger)
	taskService := service.NewTaskService(cfg.Notify, service.TaskDependencies{
		Tasks:      tasks,
		Drivers:    drivers,
		Notifier:   notifier,
		Dispatcher: dispatcher,
	}, logger)
	bookingService := service.NewBookingService(bookings, dispatcher, logger)
	paymentService := service.NewPaymentService(payments, bookings, dispatcher, logger)
	staffService := service.NewStaffService(service.StaffDependencies{
		Accounts:   accounts,
		Drivers:    drivers,
		Tasks:      taskService,
		Dispatcher: dispatcher,
	}, logger)
	provisionService := service.NewProvisionService(service.ProvisionDependencies{
		Primary:    primary,
		Secondary:  secondary,
		Accounts:   accounts,
		Drivers:    drivers,
		Dispatcher: dispatcher,
	}, logger)
	overviewService := service.NewOverviewService(service.OverviewDependencies{
		Bookings:    bookings,
		Tasks:       tasks,
		Payments:    payments,
		Subscribers: subscribers,
		Drivers:     drivers,
	}, logger)
	subscriberService := service.NewSubscriberService(subscribers, logger)
	notificationService := service.NewNotificationService(dispatcher, logger)

	worker.StartNotificationWorker(notificationService)

	gate := auth.NewGate(primary, accounts, logger)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rds),
		Auth:        handlers.NewAuthHandler(authService),
		Bookings:    handlers.NewBookingsHandler(bookingService),
		Tasks:       handlers.NewTasksHandler(taskService),
		Driver:      handlers.NewDriverHandler(taskService),
		Staff:       handlers.NewStaffHandler(staffService, provisionService),
		Payments:    handlers.NewPaymentsHandler(paymentService),
		Subscribers: handlers.NewSubscribersHandler(subscriberService),
		Overview:    handlers.NewOverviewHandler(overviewService),
		Gate:        gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
