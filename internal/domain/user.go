package domain

import "time"

// User is an account of the chat platform as exchanged with the backend.
type User struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	FirstLastName  string    `json:"firstLastName"`
	SecondLastName string    `json:"secondLastName"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Status         bool      `json:"status"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserFilter selects a slice of the user directory.
type UserFilter string

const (
	UserFilterAll      UserFilter = "all"
	UserFilterActive   UserFilter = "active"
	UserFilterInactive UserFilter = "inactive"
)

// Valid reports whether f names a known filter.
func (f UserFilter) Valid() bool {
	switch f {
	case UserFilterAll, UserFilterActive, UserFilterInactive:
		return true
	}
	return false
}
