package guard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-portal/internal/auth/authtest"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newGuardedApp() *fiber.App {
	m := NewMiddleware(nil, nil, func() time.Time { return now })

	app := fiber.New()
	app.Use(credentials.Attach(config.CookieConfig{}))
	app.Get("/", m.RedirectIfAuthenticated(), func(c *fiber.Ctx) error { return c.SendString("login") })
	app.Get("/home", m.Protect(domain.RoleAdmin), func(c *fiber.Ctx) error {
		s, ok := SessionFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(string(s.Role))
	})
	app.Get("/chat", m.Protect(), func(c *fiber.Ctx) error { return c.SendString("chat") })
	return app
}

func get(t *testing.T, app *fiber.App, target, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderCookie, "token="+url.QueryEscape("Bearer "+token))
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestProtectMiddleware(t *testing.T) {
	app := newGuardedApp()

	resp := get(t, app, "/home?tab=1", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?from=%2Fhome%3Ftab%3D1", resp.Header.Get(fiber.HeaderLocation))

	resp = get(t, app, "/home", authtest.Expired("ADMIN", now))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/?from=%2Fhome", resp.Header.Get(fiber.HeaderLocation))

	resp = get(t, app, "/home", authtest.Valid("INTERNO", now))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/homeIntern", resp.Header.Get(fiber.HeaderLocation))

	resp = get(t, app, "/home", authtest.Valid("ADMIN", now))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, app, "/chat", authtest.Valid("EXTERNO", now))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRedirectIfAuthenticatedMiddleware(t *testing.T) {
	app := newGuardedApp()

	resp := get(t, app, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, app, "/", authtest.Disabled("ADMIN", now))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, app, "/", authtest.Valid("EXTERNO", now))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/homeExtern", resp.Header.Get(fiber.HeaderLocation))

	resp = get(t, app, "/", authtest.Valid("GUEST", now))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get(fiber.HeaderLocation))
}
