package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chat-portal/internal/api/http"
	"github.com/spec-kit/chat-portal/internal/api/http/handlers"
	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/events"
	"github.com/spec-kit/chat-portal/internal/observability"
	"github.com/spec-kit/chat-portal/internal/persistence"
	"github.com/spec-kit/chat-portal/internal/repository"
	"github.com/spec-kit/chat-portal/internal/service"
	"github.com/spec-kit/chat-portal/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.Pool)
	codeRepo := repository.NewRecoveryCodeRepository(redis.Client)
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:         userRepo,
		RecoveryCodeRepo: codeRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	userService := service.NewUserService(userRepo, authService, dispatcher, logger)
	chatService := service.NewChatService(service.EchoResponder{}, cfg.Backend.UploadAllowedSuffixes, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics(cfg.App.Name + "_backend")

	app := fiber.New(fiber.Config{AppName: cfg.App.Name + "-backend"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	healthHandler := handlers.NewHealthHandler(cfg.App.Name+"-backend", cfg.App.Version, map[string]handlers.Pinger{
		"postgres": pg,
		"redis":    redis,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService, userService),
		Recovery:       handlers.NewRecoveryHandler(authService),
		Chat:           handlers.NewChatHandler(chatService),
		AuthMiddleware: authMiddleware,
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
