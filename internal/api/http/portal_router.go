package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/chat-portal/internal/api/http/handlers"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/guard"
	"github.com/spec-kit/chat-portal/internal/observability"
)

// PortalRouteConfig bundles dependencies for the portal routes.
type PortalRouteConfig struct {
	Health  *handlers.HealthHandler
	Portal  *handlers.PortalHandler
	Guards  *guard.Middleware
	Metrics *observability.Metrics
	Cookies config.CookieConfig
}

// RegisterPortalRoutes wires the portal pages and actions behind their guards.
func RegisterPortalRoutes(app *fiber.App, cfg PortalRouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Use(credentials.Attach(cfg.Cookies))

	public := cfg.Guards.RedirectIfAuthenticated()
	app.Get(guard.LoginPath, public, cfg.Portal.LoginView)
	app.Post("/auth/login", public, cfg.Portal.Login)
	app.Get("/register", public, cfg.Portal.RegisterView)
	app.Post("/register", public, cfg.Portal.Register)

	app.Get("/checkEmail", cfg.Portal.CheckEmailView)
	app.Post("/checkEmail", cfg.Portal.CheckEmail)
	app.Get("/confirmCode", cfg.Portal.ConfirmCodeView)
	app.Post("/confirmCode", cfg.Portal.ConfirmCode)
	app.Get("/newPassword", cfg.Portal.NewPasswordView)
	app.Post("/newPassword", cfg.Portal.NewPassword)

	app.Post("/logout", cfg.Portal.Logout)
	app.Post("/layout", cfg.Portal.SaveLayout)

	for _, s := range handlers.Screens {
		app.Get(s.Path, cfg.Guards.Protect(s.Role), cfg.Portal.ScreenView(s))
	}

	signedIn := cfg.Guards.Protect(domain.RoleAdmin, domain.RoleInterno, domain.RoleExterno)
	app.Post("/chat/message", signedIn, cfg.Portal.SendMessage)
	app.Post("/chat/file", signedIn, cfg.Portal.UploadFile)
	app.Post("/profile/password", signedIn, cfg.Portal.ChangePassword)
	app.Put("/profile", signedIn, cfg.Portal.UpdateProfile)

	admin := cfg.Guards.Protect(domain.RoleAdmin)
	app.Post("/users", admin, cfg.Portal.CreateUser)
	app.Put("/users/:id/status", admin, cfg.Portal.ToggleStatus)
	app.Put("/users/:id/role", admin, cfg.Portal.ToggleRole)
	app.Put("/users/:id", admin, cfg.Portal.UpdateUser)
}
