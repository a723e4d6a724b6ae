package domain

import "strings"

// Role is the role claim carried by a bearer token. The set is open: values
// outside the known constants are tolerated and simply match nothing.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleInterno Role = "INTERNO"
	RoleExterno Role = "EXTERNO"
)

// Known reports whether r is one of the roles the portal routes.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleInterno, RoleExterno:
		return true
	}
	return false
}

// RoleSet is the normalized form of an "allowed roles" parameter. An empty set
// means the caller imposes no role restriction.
type RoleSet map[Role]struct{}

// AnyOf builds a RoleSet from one or more roles. Blank entries are ignored.
func AnyOf(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		if strings.TrimSpace(string(role)) == "" {
			continue
		}
		set[role] = struct{}{}
	}
	return set
}

// Unrestricted reports whether the set admits every role.
func (s RoleSet) Unrestricted() bool {
	return len(s) == 0
}

// Contains reports membership of r.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// String renders the set for log lines.
func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for _, known := range []Role{RoleAdmin, RoleInterno, RoleExterno} {
		if s.Contains(known) {
			names = append(names, string(known))
		}
	}
	for role := range s {
		if !role.Known() {
			names = append(names, string(role))
		}
	}
	return strings.Join(names, ",")
}
