package guard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/observability"
	"github.com/spec-kit/chat-portal/internal/session"
)

const sessionKey = "guard_session"

// Middleware adapts the guard policy to fiber routes.
type Middleware struct {
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewMiddleware builds the adapter. now may be nil.
func NewMiddleware(logger *zap.Logger, metrics *observability.Metrics, now func() time.Time) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Middleware{logger: logger, metrics: metrics, now: now}
}

// Oracle returns the session oracle for the request's credential store.
func (m *Middleware) Oracle(c *fiber.Ctx) *session.Oracle {
	return session.NewOracle(credentials.FromContext(c), session.WithClock(m.now), session.WithLogger(m.logger))
}

// Protect renders the route only for valid sessions holding one of roles.
func (m *Middleware) Protect(roles ...domain.Role) fiber.Handler {
	allowed := domain.AnyOf(roles...)

	return func(c *fiber.Ctx) error {
		snapshot := m.Oracle(c).Snapshot()
		decision := Protect(snapshot, allowed, c.OriginalURL())

		switch {
		case decision.Allowed():
		case !snapshot.Valid():
			m.logger.Warn("user is not authenticated, redirecting to login", zap.String("path", c.Path()))
		default:
			m.logger.Warn("user does not have required role(s)",
				zap.String("path", c.Path()),
				zap.String("role", string(snapshot.Role)),
				zap.String("allowed", allowed.String()))
		}
		return m.apply(c, "protect", decision, snapshot)
	}
}

// RedirectIfAuthenticated renders the public route only without a valid session.
func (m *Middleware) RedirectIfAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot := m.Oracle(c).Snapshot()
		return m.apply(c, "public", RedirectIfAuthenticated(snapshot), snapshot)
	}
}

func (m *Middleware) apply(c *fiber.Ctx, guard string, decision Decision, snapshot session.Session) error {
	if decision.Allowed() {
		m.metrics.RecordGuardDecision(guard, "allow", c.Route().Path)
		c.Locals(sessionKey, snapshot)
		return c.Next()
	}
	m.metrics.RecordGuardDecision(guard, "redirect", decision.Path)
	return c.Redirect(decision.Location(), fiber.StatusFound)
}

// SessionFromContext returns the snapshot the guard evaluated for this request.
func SessionFromContext(c *fiber.Ctx) (session.Session, bool) {
	s, ok := c.Locals(sessionKey).(session.Session)
	return s, ok
}
