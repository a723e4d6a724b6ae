package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/chat-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventUserStatusChanged  EventType = "user_status_changed"
	EventRecoveryCodeIssued EventType = "recovery_code_issued"
	EventPasswordReset      EventType = "password_reset"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, userID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     domain.Role `json:"role"`
}

// UserStatusChangedPayload payload.
type UserStatusChangedPayload struct {
	Email  string `json:"email"`
	Status bool   `json:"status"`
}

// RecoveryCodeIssuedPayload payload.
type RecoveryCodeIssuedPayload struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetPayload payload.
type PasswordResetPayload struct {
	Email string `json:"email"`
}
