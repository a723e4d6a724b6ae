package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chat-portal/internal/api/http"
	"github.com/spec-kit/chat-portal/internal/api/http/handlers"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/gateway"
	"github.com/spec-kit/chat-portal/internal/guard"
	"github.com/spec-kit/chat-portal/internal/observability"
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

	metrics := observability.NewMetrics(cfg.App.Name)
	client := gateway.New(cfg.Backend, logger, gateway.WithMetrics(metrics))
	guards := guard.NewMiddleware(logger, metrics, nil)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
		"backend": handlers.PingFunc(func(context.Context) error {
			if client.State() == gobreaker.StateOpen {
				return errors.New("backend circuit open")
			}
			return nil
		}),
	})

	httptransport.RegisterPortalRoutes(app, httptransport.PortalRouteConfig{
		Health:  healthHandler,
		Portal:  handlers.NewPortalHandler(client, guards, cfg.Cookie, logger),
		Guards:  guards,
		Metrics: metrics,
		Cookies: cfg.Cookie,
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
