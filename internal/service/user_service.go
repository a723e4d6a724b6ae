package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/events"
	"github.com/spec-kit/chat-portal/internal/repository"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

// UpdateUserInput carries a full profile update.
type UpdateUserInput struct {
	ID             string
	FullName       string
	FirstLastName  string
	SecondLastName string
	Phone          string
	Email          string
	Role           domain.Role
}

// UserService implements the user directory operations.
type UserService struct {
	users      repository.UserRepository
	auth       *AuthService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService builds the service. Account creation is delegated to authSvc.
func NewUserService(users repository.UserRepository, authSvc *AuthService, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, auth: authSvc, dispatcher: dispatcher, logger: logger}
}

// List returns users matching filter.
func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	if !filter.Valid() {
		return nil, apperrors.NewValidationError("invalid user filter", map[string]any{"filter": filter})
	}
	return s.users.List(ctx, filter)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return loadUser(ctx, s.users, id)
}

// Create adds an account on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleExterno
	}
	if !in.Role.Known() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": in.Role})
	}
	return s.auth.createUser(ctx, in)
}

// ToggleStatus flips the account's active flag.
func (s *UserService) ToggleStatus(ctx context.Context, id string) (*domain.User, error) {
	user, err := loadUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}
	user.Status = !user.Status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventUserStatusChanged, user.ID,
		events.UserStatusChangedPayload{Email: user.Email, Status: user.Status}))
	return user, nil
}

// ToggleRole swaps a user between the internal and external roles.
// Administrators keep their role.
func (s *UserService) ToggleRole(ctx context.Context, id string) (*domain.User, error) {
	user, err := loadUser(ctx, s.users, id)
	if err != nil {
		return nil, err
	}
	switch user.Role {
	case domain.RoleInterno:
		user.Role = domain.RoleExterno
	case domain.RoleExterno:
		user.Role = domain.RoleInterno
	default:
		return nil, apperrors.NewConflict("role cannot be toggled", map[string]any{"role": user.Role})
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update replaces a user's profile fields.
func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (*domain.User, error) {
	if !in.Role.Known() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": in.Role})
	}
	user, err := loadUser(ctx, s.users, in.ID)
	if err != nil {
		return nil, err
	}
	user.FullName = strings.TrimSpace(in.FullName)
	user.FirstLastName = strings.TrimSpace(in.FirstLastName)
	user.SecondLastName = strings.TrimSpace(in.SecondLastName)
	user.Phone = strings.TrimSpace(in.Phone)
	user.Email = normalizeEmail(in.Email)
	user.Role = in.Role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
