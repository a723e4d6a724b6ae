// Package session derives authentication state from the stored token. It is
// the single source of truth consulted by route guards and screens.
package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
)

// Session is the (present, unexpired, active, role) tuple of the current token.
type Session struct {
	Present   bool
	Unexpired bool
	Active    bool
	Role      domain.Role
	HasRole   bool
}

// Valid requires all three conditions; presence or expiry alone is not enough.
func (s Session) Valid() bool {
	return s.Present && s.Unexpired && s.Active
}

// Permits reports whether the session's role is in allowed. An unrestricted
// set permits any session, including one without a role.
func (s Session) Permits(allowed domain.RoleSet) bool {
	if allowed.Unrestricted() {
		return true
	}
	return s.HasRole && allowed.Contains(s.Role)
}

// Oracle answers authentication questions about the token held in a Store.
// Every method is safe to call unconditionally; decode failures degrade to
// "not authenticated" and "no role".
type Oracle struct {
	store  credentials.Store
	now    func() time.Time
	logger *zap.Logger
}

// Option customizes an Oracle.
type Option func(*Oracle)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *Oracle) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger used for inactive-account warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Oracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOracle builds an Oracle over store.
func NewOracle(store credentials.Store, opts ...Option) *Oracle {
	o := &Oracle{store: store, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Claims decodes the current token.
func (o *Oracle) Claims() (*auth.Claims, bool) {
	token, ok := o.store.Get()
	if !ok {
		return nil, false
	}
	return auth.DecodeClaims(token)
}

// Snapshot evaluates the current token once.
func (o *Oracle) Snapshot() Session {
	token, ok := o.store.Get()
	if !ok {
		return Session{}
	}

	s := Session{Present: true}
	claims, ok := auth.DecodeClaims(token)
	if !ok {
		return s
	}

	s.Unexpired = !claims.ExpiredAt(o.now())
	s.Active = claims.Active()
	if claims.Role != "" {
		s.Role = claims.Role
		s.HasRole = true
	}
	if s.Unexpired && !s.Active {
		o.logger.Warn("user account is inactive", zap.String("email", claims.Email))
	}
	return s
}

// IsAuthenticated is true only for a present, unexpired token of an active account.
func (o *Oracle) IsAuthenticated() bool {
	return o.Snapshot().Valid()
}

// Role returns the role claim of the current token.
func (o *Oracle) Role() (domain.Role, bool) {
	claims, ok := o.Claims()
	if !ok || claims.Role == "" {
		return "", false
	}
	return claims.Role, true
}

// HasRole reports whether the current role is in allowed; an empty set always matches.
func (o *Oracle) HasRole(allowed domain.RoleSet) bool {
	if allowed.Unrestricted() {
		return true
	}
	role, ok := o.Role()
	return ok && allowed.Contains(role)
}

// SubjectID returns the token's id claim, falling back to the stored user id.
func (o *Oracle) SubjectID() (string, bool) {
	if claims, ok := o.Claims(); ok && claims.ID != "" {
		return claims.ID, true
	}
	return o.store.UserID()
}
