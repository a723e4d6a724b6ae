package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/api/dto"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/gateway"
	"github.com/spec-kit/chat-portal/internal/guard"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// LoginView handles GET /.
func (h *PortalHandler) LoginView(c *fiber.Ctx) error {
	v := h.view(c, "login", "Sign in")
	v.From = c.Query(guard.FromParam)
	return c.JSON(v)
}

// Login handles POST /auth/login. The client navigates to the role's landing
// page, or back to the page that sent it to login when that page accepts the role.
func (h *PortalHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	store := credentials.FromContext(c)
	claims, err := h.gateway.Login(c.UserContext(), store, gateway.LoginRequest{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return portalError(err)
	}

	result := dto.ActionResult{Redirect: guard.LoginPath, Message: "signed in"}
	if claims != nil {
		result.Redirect = guard.LandingPath(claims.Role)
		result.Data = ViewUser{ID: claims.ID, Email: claims.Email, Role: claims.Role}
		if target, ok := h.returnTarget(form.From, claims.Role); ok {
			result.Redirect = target
		}
	}
	return c.JSON(result)
}

// returnTarget resolves the pre-login location when the role may open it.
// Screens match on path; the query string is carried over.
func (h *PortalHandler) returnTarget(from string, role domain.Role) (string, bool) {
	if !localPath(from) {
		return "", false
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	for _, s := range Screens {
		if s.Path == u.Path {
			return u.RequestURI(), domain.AnyOf(s.Role).Contains(role)
		}
	}
	return "", false
}

// RegisterView handles GET /register.
func (h *PortalHandler) RegisterView(c *fiber.Ctx) error {
	return c.JSON(h.view(c, "register", "Create account"))
}

// Register handles POST /register. The new account signs in from the login page.
func (h *PortalHandler) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := bindForm(c, &form); err != nil {
		return err
	}

	err := h.gateway.Register(c.UserContext(), credentials.FromContext(c), gateway.RegisterRequest{
		FullName:       form.FullName,
		FirstLastName:  form.FirstLastName,
		SecondLastName: form.SecondLastName,
		Password:       form.Password,
		Email:          form.Email,
		Phone:          form.Phone,
	})
	if err != nil {
		return portalError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ActionResult{Message: "registration completed", Redirect: guard.LoginPath})
}

// Logout handles POST /logout.
func (h *PortalHandler) Logout(c *fiber.Ctx) error {
	credentials.FromContext(c).Clear()
	return c.JSON(dto.ActionResult{Message: "signed out", Redirect: guard.LoginPath})
}

// SaveLayout handles POST /layout.
func (h *PortalHandler) SaveLayout(c *fiber.Ctx) error {
	var form dto.LayoutForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	store := credentials.FromContext(c)
	store.SaveLayoutExpanded(form.Expanded)
	return c.JSON(dto.ActionResult{Data: fiber.Map{"layoutExpanded": store.LayoutExpanded()}})
}
