package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/events"
	"github.com/spec-kit/chat-portal/internal/repository"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

const recoveryCodeDigits = 6

var errInvalidCredentials = apperrors.NewUnauthorized("invalid email or password")

// RegisterInput carries a self-registration or admin-created account.
type RegisterInput struct {
	FullName       string
	FirstLastName  string
	SecondLastName string
	Phone          string
	Email          string
	Password       string
	Role           domain.Role
}

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	users       repository.UserRepository
	codes       repository.RecoveryCodeRepository
	dispatcher  events.Dispatcher
	tokenMgr    *auth.TokenManager
	logger      *zap.Logger
	bcryptCost  int
	recoveryTTL time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RecoveryCodeRepo repository.RecoveryCodeRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		codes:       deps.RecoveryCodeRepo,
		dispatcher:  deps.Dispatcher,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		logger:      logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		recoveryTTL: time.Duration(cfg.Auth.RecoveryCodeTTLMinutes) * time.Minute,
	}
}

// Register creates an account and returns a token for it. Self-registered
// accounts are external users.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if in.Role == "" {
		in.Role = domain.RoleExterno
	}
	user, err := s.createUser(ctx, in)
	if err != nil {
		return nil, "", err
	}
	token, _, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	return user, token, nil
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:             uuid.NewString(),
		FullName:       strings.TrimSpace(in.FullName),
		FirstLastName:  strings.TrimSpace(in.FirstLastName),
		SecondLastName: strings.TrimSpace(in.SecondLastName),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          email,
		PasswordHash:   hash,
		Role:           in.Role,
		Status:         true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}))
	return user, nil
}

// Login authenticates a user. Disabled accounts still receive a token; it
// carries status=false and is rejected by clients and protected routes.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", errInvalidCredentials
	}
	token, _, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return token, nil
}

// ChangePassword verifies the current password before storing the new one.
// A wrong current password is reported as false, not as an error.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (bool, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return false, nil
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// SendRecoveryCode issues a fresh code for a registered email, replacing any pending one.
func (s *AuthService) SendRecoveryCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("user", map[string]any{"email": email})
	}
	if err != nil {
		return err
	}

	code, err := generateRecoveryCode()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	recovery := &domain.RecoveryCode{Email: user.Email, Code: code}
	if err := s.codes.Save(ctx, recovery, s.recoveryTTL); err != nil {
		return err
	}

	s.publish(ctx, events.New(events.EventRecoveryCodeIssued, user.ID, events.RecoveryCodeIssuedPayload{
		Email:     user.Email,
		Code:      code,
		ExpiresAt: recovery.ExpiresAt,
	}))
	return nil
}

// VerifyRecoveryCode marks the pending code as verified when it matches.
func (s *AuthService) VerifyRecoveryCode(ctx context.Context, email, code string) error {
	recovery, err := s.codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if recovery == nil || recovery.Code != strings.TrimSpace(code) {
		return apperrors.NewValidationError("invalid or expired recovery code", nil)
	}
	if err := s.codes.MarkVerified(ctx, email); err != nil {
		if errors.Is(err, repository.ErrRecoveryCodeNotFound) {
			return apperrors.NewValidationError("invalid or expired recovery code", nil)
		}
		return err
	}
	return nil
}

// ResetPassword sets a new password once the email's code was verified.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	recovery, err := s.codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if recovery == nil || !recovery.Verified {
		return apperrors.NewForbidden("recovery code not verified")
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("user", map[string]any{"email": email})
	}
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		s.logger.Warn("failed to delete used recovery code", zap.Error(err))
	}

	s.publish(ctx, events.New(events.EventPasswordReset, user.ID, events.PasswordResetPayload{Email: user.Email}))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) loadUser(ctx context.Context, id string) (*domain.User, error) {
	return loadUser(ctx, s.users, id)
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

func loadUser(ctx context.Context, users repository.UserRepository, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	user, err := users.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateRecoveryCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate recovery code: %w", err)
	}
	return fmt.Sprintf("%0*d", recoveryCodeDigits, n.Int64()), nil
}
