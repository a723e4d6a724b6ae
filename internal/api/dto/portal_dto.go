package dto

import "github.com/spec-kit/chat-portal/internal/domain"

// Forms posted to the portal. Validation mirrors the browser-side checks.

type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	// From is the page that sent the user to login, if any.
	From string `json:"from" form:"from"`
}

type RegisterForm struct {
	FullName        string `json:"fullName" form:"fullName" validate:"required"`
	FirstLastName   string `json:"firstLastName" form:"firstLastName" validate:"required"`
	SecondLastName  string `json:"secondLastName" form:"secondLastName" validate:"required"`
	Phone           string `json:"phone" form:"phone" validate:"required,len=10,numeric"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=Password"`
}

type RecoveryEmailForm struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type RecoveryCodeForm struct {
	Code string `json:"code" form:"code" validate:"required"`
}

type NewPasswordForm struct {
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type ChatForm struct {
	Message string `json:"message" form:"message" validate:"required"`
}

type LayoutForm struct {
	Expanded bool `json:"expanded" form:"expanded"`
}

type PasswordChangeForm struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" form:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type ProfileForm struct {
	FullName       string `json:"fullName" form:"fullName" validate:"required"`
	FirstLastName  string `json:"firstLastName" form:"firstLastName" validate:"required"`
	SecondLastName string `json:"secondLastName" form:"secondLastName" validate:"required"`
	Phone          string `json:"phone" form:"phone" validate:"required"`
	Email          string `json:"email" form:"email" validate:"required,email"`
}

type AdminUserForm struct {
	FullName       string      `json:"fullName" form:"fullName" validate:"required"`
	FirstLastName  string      `json:"firstLastName" form:"firstLastName" validate:"required"`
	SecondLastName string      `json:"secondLastName" form:"secondLastName" validate:"required"`
	Phone          string      `json:"phone" form:"phone" validate:"required,len=10,numeric"`
	Email          string      `json:"email" form:"email" validate:"required,email"`
	Password       string      `json:"password" form:"password" validate:"required,min=8"`
	Role           domain.Role `json:"role" form:"role" validate:"omitempty,oneof=ADMIN INTERNO EXTERNO"`
}

// ActionResult answers a portal action. Redirect is where the client navigates next.
type ActionResult struct {
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Data     any    `json:"data,omitempty"`
}
