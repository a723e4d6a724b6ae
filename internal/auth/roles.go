package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/domain"
)

// RequireRole ensures the principal holds one of the allowed roles.
// An empty allow list only requires authentication.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := domain.AnyOf(allowed...)

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if allowedSet.Unrestricted() {
			return c.Next()
		}
		if !allowedSet.Contains(principal.Role) {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireSelfOrRole lets a principal act on its own record identified by the
// route parameter, or any record when it holds one of the roles.
func RequireSelfOrRole(param string, allowed ...domain.Role) fiber.Handler {
	allowedSet := domain.AnyOf(allowed...)

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if principal.UserID == c.Params(param) || allowedSet.Contains(principal.Role) {
			return c.Next()
		}
		return fiber.NewError(http.StatusForbidden, "insufficient role")
	}
}
