package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/api/http/handlers"
	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/internal/events"
	"github.com/spec-kit/chat-portal/internal/repository"
	"github.com/spec-kit/chat-portal/internal/service"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

const (
	testPassword  = "password1"
	backendSecret = "backend-secret"
)

// memoryUsers is an in-process repository.UserRepository.
type memoryUsers struct {
	mu    sync.Mutex
	order []string
	byID  map[string]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]domain.User)}
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.NewConflict("email already registered", nil)
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.byID[user.ID] = *user
	m.order = append(m.order, user.ID)
	return nil
}

func (m *memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	m.byID[user.ID] = *user
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUsers) List(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.User, 0, len(m.order))
	for _, id := range m.order {
		u := m.byID[id]
		if (filter == domain.UserFilterActive && !u.Status) || (filter == domain.UserFilterInactive && u.Status) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// seed stores an account with testPassword.
func (m *memoryUsers) seed(t *testing.T, email string, role domain.Role, active bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	user := &domain.User{
		ID:             uuid.NewString(),
		FullName:       "Test",
		FirstLastName:  "User",
		SecondLastName: "Example",
		Phone:          "5512345678",
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		Status:         active,
	}
	require.NoError(t, m.Create(context.Background(), user))
	return user
}

type backend struct {
	app    *fiber.App
	users  *memoryUsers
	tokens *auth.TokenManager

	mu       sync.Mutex
	lastCode string
}

func (b *backend) recoveryCode() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastCode
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	b := &backend{users: newMemoryUsers()}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventRecoveryCodeIssued, func(_ context.Context, e events.Event) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lastCode = e.Payload.(events.RecoveryCodeIssuedPayload).Code
		return nil
	})

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:              backendSecret,
		AccessTokenTTLMinutes:  60,
		RecoveryCodeTTLMinutes: 15,
		BcryptCost:             4,
	}}
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:         b.users,
		RecoveryCodeRepo: repository.NewRecoveryCodeRepository(rdb),
		Dispatcher:       dispatcher,
	})
	userService := service.NewUserService(b.users, authService, dispatcher, nil)
	chatService := service.NewChatService(nil, []string{".pdf", ".docx", ".txt"}, nil)
	b.tokens = authService.TokenManager()

	b.app = fiber.New()
	RegisterMiddlewares(b.app, zap.NewNop(), nil, 0)
	RegisterRoutes(b.app, RouteConfig{
		Health:         handlers.NewHealthHandler("backend", "test", nil),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService, userService),
		Recovery:       handlers.NewRecoveryHandler(authService),
		Chat:           handlers.NewChatHandler(chatService),
		AuthMiddleware: auth.NewAuthMiddleware(b.tokens),
	})
	return b
}

// tokenFor signs a backend token for user.
func (b *backend) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := b.tokens.GenerateToken(user)
	require.NoError(t, err)
	return token
}

// call sends a JSON request straight to app.
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return out
}
