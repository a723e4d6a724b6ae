package credentials

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-portal/internal/config"
)

const localsKey = "credentials_store"

// CookieStore is a per-request view of the browser's cookie jar. Values are
// query-escaped on the wire. Writes are sent back as Set-Cookie headers and
// are visible to later reads in the same request.
type CookieStore struct {
	c       *fiber.Ctx
	cfg     config.CookieConfig
	pending map[string]*string
}

// NewCookieStore binds a store to the request.
func NewCookieStore(c *fiber.Ctx, cfg config.CookieConfig) *CookieStore {
	return &CookieStore{c: c, cfg: cfg, pending: make(map[string]*string)}
}

// Attach installs a CookieStore on every request so guards and handlers share
// one read-your-writes view.
func Attach(cfg config.CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localsKey, NewCookieStore(c, cfg))
		return c.Next()
	}
}

// FromContext returns the request's store, creating one with default cookie
// settings when Attach did not run.
func FromContext(c *fiber.Ctx) Store {
	if store, ok := c.Locals(localsKey).(Store); ok {
		return store
	}
	store := NewCookieStore(c, config.CookieConfig{SameSite: fiber.CookieSameSiteLaxMode})
	c.Locals(localsKey, store)
	return store
}

func (s *CookieStore) Get() (string, bool) {
	return s.read(KeyToken)
}

func (s *CookieStore) Save(token string) {
	s.write(KeyToken, Normalize(token), s.cfg.MaxAge())
}

func (s *CookieStore) Clear() {
	s.remove(KeyToken)
	s.remove(KeyUserID)
}

func (s *CookieStore) UserID() (string, bool) {
	return s.read(KeyUserID)
}

func (s *CookieStore) SaveUserID(id string) {
	s.write(KeyUserID, strings.TrimSpace(id), s.cfg.MaxAge())
}

func (s *CookieStore) LayoutExpanded() bool {
	val, ok := s.read(KeyLayoutExpanded)
	if !ok {
		return false
	}
	expanded, err := strconv.ParseBool(val)
	return err == nil && expanded
}

func (s *CookieStore) SaveLayoutExpanded(expanded bool) {
	// one year; the preference outlives sessions
	s.write(KeyLayoutExpanded, strconv.FormatBool(expanded), 365*24*60*60)
}

func (s *CookieStore) read(key string) (string, bool) {
	if val, ok := s.pending[key]; ok {
		if val == nil {
			return "", false
		}
		return *val, true
	}
	raw := s.c.Cookies(key)
	if raw == "" {
		return "", false
	}
	val, err := url.QueryUnescape(raw)
	if err != nil || val == "" {
		return "", false
	}
	return val, true
}

func (s *CookieStore) write(key, val string, maxAge int) {
	if val == "" {
		s.remove(key)
		return
	}
	s.pending[key] = &val
	s.c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    url.QueryEscape(val),
		Path:     "/",
		Domain:   s.cfg.Domain,
		MaxAge:   maxAge,
		Secure:   s.cfg.Secure,
		HTTPOnly: true,
		SameSite: s.sameSite(),
	})
}

func (s *CookieStore) remove(key string) {
	prev, seen := s.pending[key]
	s.pending[key] = nil
	// a cookie set earlier in this response must be overwritten too
	if s.c.Cookies(key) == "" && !(seen && prev != nil) {
		return
	}
	s.c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		Domain:   s.cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.cfg.Secure,
		HTTPOnly: true,
		SameSite: s.sameSite(),
	})
}

func (s *CookieStore) sameSite() string {
	switch strings.ToLower(s.cfg.SameSite) {
	case "strict":
		return fiber.CookieSameSiteStrictMode
	case "none":
		return fiber.CookieSameSiteNoneMode
	default:
		return fiber.CookieSameSiteLaxMode
	}
}
