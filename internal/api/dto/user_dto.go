package dto

import "github.com/spec-kit/chat-portal/internal/domain"

// Envelope is the {result, message} shape of the backend's JSON answers.
// A nil Result is sent as null.
type Envelope struct {
	Result  any    `json:"result"`
	Message string `json:"message,omitempty"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SaveUserRequest creates an account, either self-registered or by an administrator.
type SaveUserRequest struct {
	FullName       string      `json:"fullName" validate:"required"`
	FirstLastName  string      `json:"firstLastName" validate:"required"`
	SecondLastName string      `json:"secondLastName" validate:"required"`
	Phone          string      `json:"phone" validate:"omitempty,max=20"`
	Email          string      `json:"email" validate:"required,email"`
	Password       string      `json:"password" validate:"required,min=8"`
	Role           domain.Role `json:"role" validate:"omitempty,oneof=ADMIN INTERNO EXTERNO"`
}

// UpdateUserRequest replaces profile fields.
type UpdateUserRequest struct {
	ID             string      `json:"id" validate:"required"`
	FullName       string      `json:"fullName" validate:"required"`
	FirstLastName  string      `json:"firstLastName" validate:"required"`
	SecondLastName string      `json:"secondLastName" validate:"required"`
	Phone          string      `json:"phone" validate:"required"`
	Email          string      `json:"email" validate:"required,email"`
	Role           domain.Role `json:"role" validate:"required,oneof=ADMIN INTERNO EXTERNO"`
}

// ChangePasswordRequest payload for POST /users/change-password-user.
type ChangePasswordRequest struct {
	UserID          string `json:"userId" validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// VerifyRecoveryCodeRequest payload.
type VerifyRecoveryCodeRequest struct {
	Email        string `json:"email" validate:"required,email"`
	RecoveryCode string `json:"recoveryCode" validate:"required"`
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ChatMessageRequest payload for POST /n8n/message.
type ChatMessageRequest struct {
	ChatInput string `json:"chatInput" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
}
