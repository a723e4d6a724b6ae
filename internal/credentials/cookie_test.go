package credentials

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-portal/internal/config"
)

func newCookieApp() *fiber.App {
	app := fiber.New()
	app.Use(Attach(config.CookieConfig{SameSite: "Strict", MaxAgeDays: 1}))

	app.Get("/save", func(c *fiber.Ctx) error {
		store := FromContext(c)
		store.Save(c.Query("token"))
		store.SaveUserID("user-1")
		token, _ := store.Get()
		return c.SendString(token)
	})
	app.Get("/get", func(c *fiber.Ctx) error {
		store := FromContext(c)
		token, ok := store.Get()
		if !ok {
			return c.SendStatus(http.StatusNoContent)
		}
		return c.SendString(token)
	})
	app.Get("/save-then-clear", func(c *fiber.Ctx) error {
		store := FromContext(c)
		store.Save("abc")
		store.Clear()
		return c.SendStatus(http.StatusNoContent)
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		store := FromContext(c)
		store.Clear()
		_, hasToken := store.Get()
		_, hasID := store.UserID()
		if hasToken || hasID {
			return c.SendStatus(http.StatusConflict)
		}
		if store.LayoutExpanded() {
			return c.SendString("expanded")
		}
		return c.SendString("collapsed")
	})
	return app
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func findCookie(resp *http.Response, name string) string {
	for _, h := range resp.Header.Values(fiber.HeaderSetCookie) {
		if strings.HasPrefix(h, name+"=") {
			return h
		}
	}
	return ""
}

func TestCookieStoreSaveIsReadableInSameRequest(t *testing.T) {
	app := newCookieApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/save?token=Bearer%20abc", nil))
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", body(t, resp))
	tokenCookie := findCookie(resp, KeyToken)
	assert.True(t, strings.HasPrefix(tokenCookie, "token=Bearer+abc"), tokenCookie)
	assert.Contains(t, strings.ToLower(tokenCookie), "httponly")
	assert.Contains(t, strings.ToLower(tokenCookie), "samesite=strict")
	assert.NotEmpty(t, findCookie(resp, KeyUserID))
}

func TestCookieStoreReadsEscapedCookie(t *testing.T) {
	app := newCookieApp()
	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.Header.Set(fiber.HeaderCookie, "token=Bearer+abc.def")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bearer abc.def", body(t, resp))
}

func TestCookieStoreMissingToken(t *testing.T) {
	app := newCookieApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/get", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCookieStoreClearKeepsLayout(t *testing.T) {
	app := newCookieApp()
	req := httptest.NewRequest(http.MethodGet, "/clear", nil)
	req.Header.Set(fiber.HeaderCookie, "token=Bearer+abc; userId=user-1; isExpanded=true")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "expanded", body(t, resp))
	assert.True(t, strings.HasPrefix(findCookie(resp, KeyToken), "token=;"))
	assert.True(t, strings.HasPrefix(findCookie(resp, KeyUserID), "userId=;"))
	assert.Empty(t, findCookie(resp, KeyLayoutExpanded))
}

func TestCookieStoreClearWithoutCookies(t *testing.T) {
	app := newCookieApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/clear", nil))
	require.NoError(t, err)

	assert.Equal(t, "collapsed", body(t, resp))
	assert.Empty(t, resp.Header.Values(fiber.HeaderSetCookie))
}

func TestCookieStoreClearOverridesWriteInSameResponse(t *testing.T) {
	app := newCookieApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/save-then-clear", nil))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(findCookie(resp, KeyToken), "token=;"))
	assert.Len(t, resp.Header.Values(fiber.HeaderSetCookie), 1)
}
