// Package credentials keeps the bearer token and its auxiliary client-side
// values. Business logic receives a Store and never reaches storage directly.
package credentials

import "github.com/spec-kit/chat-portal/internal/auth"

// Persisted key names, shared by every backing store.
const (
	KeyToken          = "token"
	KeyUserID         = "userId"
	KeyLayoutExpanded = "isExpanded"
)

// Store persists the current token plus auxiliary keys. Every key is written
// independently; there is no cross-key atomicity.
type Store interface {
	// Get returns the stored token with its scheme marker.
	Get() (string, bool)
	// Save stores token normalized to carry the scheme marker exactly once.
	Save(token string)
	// Clear drops the token and the session-scoped user id. It is a no-op when empty.
	Clear()

	UserID() (string, bool)
	SaveUserID(id string)

	// LayoutExpanded is a UI preference; it survives Clear.
	LayoutExpanded() bool
	SaveLayoutExpanded(expanded bool)
}

// Normalize is the token form every Store persists.
func Normalize(token string) string {
	return auth.WithBearer(token)
}
