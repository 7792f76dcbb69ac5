package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/venue-access-service/internal/api/http"
	"github.com/spec-kit/venue-access-service/internal/api/http/handlers"
	"github.com/spec-kit/venue-access-service/internal/auth"
	"github.com/spec-kit/venue-access-service/internal/config"
	"github.com/spec-kit/venue-access-service/internal/events"
	"github.com/spec-kit/venue-access-service/internal/observability"
	"github.com/spec-kit/venue-access-service/internal/persistence"
	"github.com/spec-kit/venue-access-service/internal/repository"
	"github.com/spec-kit/venue-access-service/internal/service"
	"github.com/spec-kit/venue-access-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	venueRepo := repository.NewVenueRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	invitationRepo := repository.NewInvitationRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	incidentRepo := repository.NewIncidentRepository(pool)
	transactor := repository.NewTransactor(pool)
	profiles := repository.NewProfileStore(staffRepo, redis.ClientHandle(), cfg.Cache.ProfileTTL(), logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	revocations := auth.NewRevocationList(redis.ClientHandle())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo:    accountRepo,
		StaffRepo:      staffRepo,
		InvitationRepo: invitationRepo,
		Profiles:       profiles,
		Revocations:    revocations,
		TokenManager:   tokens,
		Dispatcher:     dispatcher,
		Transactor:     transactor,
		Logger:         logger,
	})
	venueService := service.NewVenueService(service.VenueDependencies{
		VenueRepo:  venueRepo,
		StaffRepo:  staffRepo,
		Dispatcher: dispatcher,
		Transactor: transactor,
	})
	staffService := service.NewStaffService(*cfg, service.StaffDependencies{
		StaffRepo:      staffRepo,
		InvitationRepo: invitationRepo,
		Profiles:       profiles,
		Dispatcher:     dispatcher,
		Transactor:     transactor,
		Logger:         logger,
	})
	eventService := service.NewEventService(eventRepo)
	incidentService := service.NewIncidentService(incidentRepo, eventRepo, dispatcher)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	routes := httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Venues:         handlers.NewVenueHandler(venueService),
		Staff:          handlers.NewStaffHandler(staffService),
		Events:         handlers.NewEventHandler(eventService, incidentService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, revocations, accountRepo, profiles, logger),
		Guard:          auth.NewGuard(logger, metrics),
	}
	if cfg.Metrics.Enabled {
		routes.Metrics = observability.Handler(registry)
		routes.MetricsPath = cfg.Metrics.Path
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
