package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/gateway"
	"github.com/spec-kit/chat-portal/internal/guard"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
	"github.com/spec-kit/chat-portal/pkg/validator"
)

// Screen describes one role-gated page of the portal.
type Screen struct {
	Path      string      `json:"path"`
	Name      string      `json:"name"`
	Title     string      `json:"title"`
	Role      domain.Role `json:"-"`
	Kind      string      `json:"-"`
	Assistant string      `json:"-"`
}

// Screen kinds.
const (
	KindChat    = "chat"
	KindUsers   = "users"
	KindProfile = "profile"
)

// Screens is the full role-gated page table.
var Screens = []Screen{
	{Path: guard.AdminHomePath, Name: "home", Title: "Assistant", Role: domain.RoleAdmin, Kind: KindChat, Assistant: "general"},
	{Path: "/sisbi", Name: "sisbi", Title: "SISBI assistant", Role: domain.RoleAdmin, Kind: KindChat, Assistant: "sisbi"},
	{Path: "/cotizacion", Name: "cotizacion", Title: "Quotation assistant", Role: domain.RoleAdmin, Kind: KindChat, Assistant: "cotizacion"},
	{Path: "/users", Name: "users", Title: "Users", Role: domain.RoleAdmin, Kind: KindUsers},
	{Path: "/profile", Name: "profile", Title: "Profile", Role: domain.RoleAdmin, Kind: KindProfile},

	{Path: guard.InternHomePath, Name: "homeIntern", Title: "Assistant", Role: domain.RoleInterno, Kind: KindChat, Assistant: "general"},
	{Path: "/cotizacionIntern", Name: "cotizacionIntern", Title: "Quotation assistant", Role: domain.RoleInterno, Kind: KindChat, Assistant: "cotizacion"},
	{Path: "/sisbiIntern", Name: "sisbiIntern", Title: "SISBI assistant", Role: domain.RoleInterno, Kind: KindChat, Assistant: "sisbi"},
	{Path: "/profileIntern", Name: "profileIntern", Title: "Profile", Role: domain.RoleInterno, Kind: KindProfile},

	{Path: guard.ExternHomePath, Name: "homeExtern", Title: "Assistant", Role: domain.RoleExterno, Kind: KindChat, Assistant: "general"},
	{Path: "/profileExtern", Name: "profileExtern", Title: "Profile", Role: domain.RoleExterno, Kind: KindProfile},
}

// NavFor lists the screens a role can open, in menu order.
func NavFor(role domain.Role) []Screen {
	var nav []Screen
	for _, s := range Screens {
		if s.Role == role {
			nav = append(nav, s)
		}
	}
	return nav
}

// ViewUser is the signed-in identity shown in the page chrome.
type ViewUser struct {
	ID    string      `json:"id,omitempty"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// View is the JSON view model of a portal page.
type View struct {
	Screen         string    `json:"screen"`
	Title          string    `json:"title,omitempty"`
	User           *ViewUser `json:"user,omitempty"`
	Nav            []Screen  `json:"nav,omitempty"`
	LayoutExpanded bool      `json:"layoutExpanded"`
	From           string    `json:"from,omitempty"`
	Message        string    `json:"message,omitempty"`
	Error          string    `json:"error,omitempty"`
	Data           any       `json:"data,omitempty"`
}

// PortalHandler serves the portal's pages and actions.
type PortalHandler struct {
	gateway *gateway.Client
	guards  *guard.Middleware
	logger  *zap.Logger
	cookies config.CookieConfig
}

// NewPortalHandler constructs handler.
func NewPortalHandler(gw *gateway.Client, guards *guard.Middleware, cookies config.CookieConfig, logger *zap.Logger) *PortalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalHandler{gateway: gw, guards: guards, logger: logger, cookies: cookies}
}

// view builds the chrome shared by every page.
func (h *PortalHandler) view(c *fiber.Ctx, screen, title string) View {
	store := credentials.FromContext(c)
	v := View{Screen: screen, Title: title, LayoutExpanded: store.LayoutExpanded()}
	if claims, ok := h.claims(c); ok {
		v.User = &ViewUser{ID: claims.ID, Email: claims.Email, Role: claims.Role}
		v.Nav = NavFor(claims.Role)
	}
	return v
}

func (h *PortalHandler) claims(c *fiber.Ctx) (*auth.Claims, bool) {
	return h.guards.Oracle(c).Claims()
}

// subjectID is the token's id claim, else the stored user id.
func (h *PortalHandler) subjectID(c *fiber.Ctx) string {
	id, _ := h.guards.Oracle(c).SubjectID()
	return id
}

// bindForm parses and validates a portal form.
func bindForm(c *fiber.Ctx, dst any) error {
	return bind(c, dst)
}

// portalError maps gateway failures to DomainErrors, keeping the backend's
// message text intact.
func portalError(err error) error {
	if err == nil {
		return nil
	}

	var (
		domainErr *apperrors.DomainError
		gwErr     *gateway.Error
		vErr      *validator.ValidationError
		fileErr   *gateway.UnsupportedFileError
	)
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, gateway.ErrSessionExpired):
		return apperrors.NewDomainError("SESSION_EXPIRED", err.Error(), fiber.StatusUnauthorized,
			map[string]any{"redirect": guard.LoginPath})
	case errors.As(err, &gwErr):
		return apperrors.NewUpstreamError(gwErr.Message, gwErr.Status, err)
	case errors.As(err, &vErr):
		return apperrors.NewValidationError(vErr.Error(), vErr.Details())
	case errors.As(err, &fileErr):
		return apperrors.NewValidationError(fileErr.Error(), map[string]any{"allowed": fileErr.Allowed})
	case errors.Is(err, gateway.ErrUserNotFound):
		return apperrors.NewNotFound("user", nil)
	case errors.Is(err, gateway.ErrAccountInactive):
		return apperrors.NewForbidden(err.Error())
	case errors.Is(err, gateway.ErrEmptyMessage),
		errors.Is(err, gateway.ErrMissingSession),
		errors.Is(err, gateway.ErrEmptyFile):
		return apperrors.NewValidationError(err.Error(), nil)
	default:
		return apperrors.NewUpstreamError(err.Error(), 0, err)
	}
}

// localPath accepts only same-origin absolute paths as post-login targets.
func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, `\`)
}
