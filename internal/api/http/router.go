package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/http/handlers"
	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/domain"
)

// RouteConfig bundles dependencies for the reference backend routes.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Recovery       *handlers.RecoveryHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires the backend REST contract the portal consumes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	users := app.Group("/users")
	users.Post("/save", cfg.AuthMiddleware.Optional, cfg.Users.Save)
	users.Post("/send-recovery-code/:email", cfg.Recovery.SendCode)
	users.Post("/verify-recovery-code", cfg.Recovery.Verify)
	users.Put("/reset-password", cfg.Recovery.Reset)

	admin := auth.RequireRole(domain.RoleAdmin)
	authenticated := users.Group("", cfg.AuthMiddleware.Handle)
	authenticated.Get("/all", admin, cfg.Users.List(domain.UserFilterAll))
	authenticated.Get("/active", admin, cfg.Users.List(domain.UserFilterActive))
	authenticated.Get("/inactive", admin, cfg.Users.List(domain.UserFilterInactive))
	authenticated.Put("/change-status/:id", admin, cfg.Users.ChangeStatus)
	authenticated.Put("/change-rol/:id", admin, cfg.Users.ChangeRole)
	authenticated.Post("/update", cfg.Users.Update)
	authenticated.Post("/change-password-user", cfg.Users.ChangePassword)
	authenticated.Get("/:id", auth.RequireSelfOrRole("id", domain.RoleAdmin), cfg.Users.Get)

	chat := app.Group("/n8n", cfg.AuthMiddleware.Handle, auth.RequireRole())
	chat.Post("/message", cfg.Chat.Message)
	chat.Post("/file", cfg.Chat.File)
}
