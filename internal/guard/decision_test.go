package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/session"
)

func valid(role domain.Role) session.Session {
	return session.Session{Present: true, Unexpired: true, Active: true, Role: role, HasRole: role != ""}
}

func TestProtectInvalidSessionsGoToLogin(t *testing.T) {
	sessions := map[string]session.Session{
		"absent":   {},
		"expired":  {Present: true, Active: true, Role: domain.RoleAdmin, HasRole: true},
		"disabled": {Present: true, Unexpired: true, Role: domain.RoleAdmin, HasRole: true},
	}
	for name, s := range sessions {
		t.Run(name, func(t *testing.T) {
			d := Protect(s, domain.AnyOf(domain.RoleAdmin), "/users?filter=active")
			assert.False(t, d.Allowed())
			assert.Equal(t, LoginPath, d.Path)
			assert.Equal(t, "/users?filter=active", d.From)
			assert.Equal(t, "/?from=%2Fusers%3Ffilter%3Dactive", d.Location())
		})
	}
}

func TestProtectRoleMismatchGoesToOwnLanding(t *testing.T) {
	admins := domain.AnyOf(domain.RoleAdmin)

	tests := []struct {
		role   domain.Role
		expect string
	}{
		{domain.RoleInterno, InternHomePath},
		{domain.RoleExterno, ExternHomePath},
		{"GUEST", LoginPath},
		{"", LoginPath},
	}
	for _, tt := range tests {
		d := Protect(valid(tt.role), admins, "/users")
		assert.Equal(t, RedirectTo(tt.expect), d, tt.role)
		assert.Equal(t, tt.expect, d.Location())
	}
}

func TestProtectAllows(t *testing.T) {
	assert.True(t, Protect(valid(domain.RoleAdmin), domain.AnyOf(domain.RoleAdmin), "/home").Allowed())
	assert.True(t, Protect(valid(domain.RoleInterno), domain.AnyOf(domain.RoleAdmin, domain.RoleInterno), "/x").Allowed())
	assert.True(t, Protect(valid(""), domain.AnyOf(), "/x").Allowed())
	assert.True(t, Protect(valid("GUEST"), nil, "/x").Allowed())
}

func TestProtectIsIdempotent(t *testing.T) {
	s := valid(domain.RoleExterno)
	first := Protect(s, domain.AnyOf(domain.RoleAdmin), "/home")
	second := Protect(s, domain.AnyOf(domain.RoleAdmin), "/home")
	assert.Equal(t, first, second)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	assert.True(t, RedirectIfAuthenticated(session.Session{}).Allowed())
	assert.True(t, RedirectIfAuthenticated(session.Session{Present: true, Active: true, Role: domain.RoleAdmin, HasRole: true}).Allowed())
	assert.True(t, RedirectIfAuthenticated(session.Session{Present: true, Unexpired: true, Role: domain.RoleAdmin, HasRole: true}).Allowed())

	assert.Equal(t, RedirectTo(AdminHomePath), RedirectIfAuthenticated(valid(domain.RoleAdmin)))
	assert.Equal(t, RedirectTo(InternHomePath), RedirectIfAuthenticated(valid(domain.RoleInterno)))
	assert.Equal(t, RedirectTo(ExternHomePath), RedirectIfAuthenticated(valid(domain.RoleExterno)))
}

func TestUnknownRoleLandingDiffersBetweenGuards(t *testing.T) {
	assert.Equal(t, RedirectTo(AdminHomePath), RedirectIfAuthenticated(valid("GUEST")))
	assert.Equal(t, RedirectTo(LoginPath), Protect(valid("GUEST"), domain.AnyOf(domain.RoleAdmin), "/home"))
}

func TestLocationWithoutFrom(t *testing.T) {
	assert.Equal(t, "/homeIntern", RedirectTo(InternHomePath).Location())
	assert.Equal(t, "", Allow().Location())
}
