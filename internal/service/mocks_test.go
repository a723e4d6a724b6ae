package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/chat-portal/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

type mockCodeRepo struct {
	mock.Mock
}

func (m *mockCodeRepo) Save(ctx context.Context, code *domain.RecoveryCode, ttl time.Duration) error {
	return m.Called(ctx, code, ttl).Error(0)
}

func (m *mockCodeRepo) Get(ctx context.Context, email string) (*domain.RecoveryCode, error) {
	args := m.Called(ctx, email)
	code, _ := args.Get(0).(*domain.RecoveryCode)
	return code, args.Error(1)
}

func (m *mockCodeRepo) MarkVerified(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockCodeRepo) Delete(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
