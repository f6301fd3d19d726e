package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/opsdesk/helpdesk/internal/api/http"
	"github.com/opsdesk/helpdesk/internal/api/http/handlers"
	"github.com/opsdesk/helpdesk/internal/auth"
	"github.com/opsdesk/helpdesk/internal/config"
	"github.com/opsdesk/helpdesk/internal/events"
	"github.com/opsdesk/helpdesk/internal/observability"
	"github.com/opsdesk/helpdesk/internal/persistence"
	"github.com/opsdesk/helpdesk/internal/repository"
	"github.com/opsdesk/helpdesk/internal/service"
	"github.com/opsdesk/helpdesk/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	slaPolicyRepo := repository.NewSlaPolicyRepository(pool)
	timeEntryRepo := repository.NewTimeEntryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	if cfg.AMQP.URL != "" {
		forwarder, err := events.NewAMQPForwarder(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			logger.Warn("amqp forwarder disabled", zap.Error(err))
		} else {
			forwarder.Attach(dispatcher)
			defer forwarder.Close() //nolint:errcheck
		}
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		ContactRepo: contactRepo,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, contactRepo)

	activityService := service.NewActivityService(activityRepo, logger)
	slaService := service.NewSlaService(slaPolicyRepo, ticketRepo, redis.Client, cfg.Sla.CacheTTL(), logger)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CustomerRepo:   customerRepo,
		CommentRepo:    commentRepo,
		TagRepo:        tagRepo,
		AttachmentRepo: attachmentRepo,
		TimeEntryRepo:  timeEntryRepo,
		Sla:            slaService,
		Activity:       activityService,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	portalService := service.NewPortalService(ticketService, ticketRepo, commentRepo, logger)
	timeEntryService := service.NewTimeEntryService(timeEntryRepo, ticketService)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)
	slaWorker := worker.NewSlaWorker(slaService, cfg.Sla.SweepInterval(), logger)
	go slaWorker.Run(ctx)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Tags:           handlers.NewTagsHandler(ticketService),
		Sla:            handlers.NewSlaHandler(slaService),
		TimeEntries:    handlers.NewTimeEntriesHandler(timeEntryService),
		Portal:         handlers.NewPortalHandler(portalService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
