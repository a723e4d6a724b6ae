// Package guard holds the route-gating policy. The policy functions are pure:
// they map a session snapshot to a Decision and never touch storage or I/O.
package guard

import (
	"net/url"

	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/session"
)

// Screen paths the guards redirect to.
const (
	LoginPath      = "/"
	AdminHomePath  = "/home"
	InternHomePath = "/homeIntern"
	ExternHomePath = "/homeExtern"
)

// FromParam carries the attempted location on redirects to the login screen.
const FromParam = "from"

// Decision is either Allow or a redirect to Path.
type Decision struct {
	Path string
	// From is the location the caller tried to reach, only set on redirects to login.
	From string
}

// Allow lets the wrapped content render.
func Allow() Decision {
	return Decision{}
}

// RedirectTo sends the caller to path.
func RedirectTo(path string) Decision {
	return Decision{Path: path}
}

// Allowed reports whether the content may render.
func (d Decision) Allowed() bool {
	return d.Path == ""
}

// Location is the redirect target including the attempted location, if any.
func (d Decision) Location() string {
	if d.From == "" {
		return d.Path
	}
	return d.Path + "?" + url.Values{FromParam: {d.From}}.Encode()
}

var roleLanding = map[domain.Role]string{
	domain.RoleAdmin:   AdminHomePath,
	domain.RoleInterno: InternHomePath,
	domain.RoleExterno: ExternHomePath,
}

// LandingPath is the home screen of role; unknown or missing roles land on login.
func LandingPath(role domain.Role) string {
	if path, ok := roleLanding[role]; ok {
		return path
	}
	return LoginPath
}

// PublicLandingPath is where an authenticated session leaving a public screen
// goes. Unknown roles land on the admin home here, unlike LandingPath.
// TODO(product): confirm whether unknown roles should land on login in both guards.
func PublicLandingPath(role domain.Role) string {
	if path, ok := roleLanding[role]; ok {
		return path
	}
	return AdminHomePath
}

// Protect gates a role-restricted screen. attempted is preserved on the login
// redirect so the login screen may return there.
func Protect(s session.Session, allowed domain.RoleSet, attempted string) Decision {
	if !s.Valid() {
		return Decision{Path: LoginPath, From: attempted}
	}
	if !s.Permits(allowed) {
		if !s.HasRole {
			return RedirectTo(LoginPath)
		}
		return RedirectTo(LandingPath(s.Role))
	}
	return Allow()
}

// RedirectIfAuthenticated keeps valid sessions off the public auth screens.
func RedirectIfAuthenticated(s session.Session) Decision {
	if !s.Valid() {
		return Allow()
	}
	return RedirectTo(PublicLandingPath(s.Role))
}
