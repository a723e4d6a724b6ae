package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-portal/internal/domain"
	apperrors "github.com/spec-kit/chat-portal/pkg/util"
)

var userColumnNames = []string{
	"id", "full_name", "first_last_name", "second_last_name", "phone", "email",
	"password_hash", "role", "status", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:             "8f14e45f-ceea-4671-9a39-8a4e1f1c0b11",
		FullName:       "Ana",
		FirstLastName:  "Diaz",
		SecondLastName: "Ruiz",
		Phone:          "5512345678",
		Email:          "ana@example.com",
		PasswordHash:   "hash",
		Role:           domain.RoleExterno,
		Status:         true,
	}
}

func TestUserRepositoryCreate(t *testing.T) {
	mock, repo := newMockRepo(t)
	user := sampleUser()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(user.ID, user.FullName, user.FirstLastName, user.SecondLastName, user.Phone,
			user.Email, user.PasswordHash, "EXTERNO", true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), sampleUser())
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`FROM users WHERE lower\(email\)=lower\(\$1\)`).
		WithArgs("ANA@example.com").
		WillReturnRows(pgxmock.NewRows(userColumnNames).
			AddRow("u1", "Ana", "Diaz", "Ruiz", "5512345678", "ana@example.com", "hash", "ADMIN", false, now, now))

	user, err := repo.GetByEmail(context.Background(), "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.False(t, user.Status)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)
	mock.ExpectQuery(`FROM users WHERE id=\$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUserRepositoryUpdate(t *testing.T) {
	mock, repo := newMockRepo(t)
	user := sampleUser()

	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(user.FullName, user.FirstLastName, user.SecondLastName, user.Phone, user.Email,
			user.PasswordHash, "EXTERNO", true, user.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.Update(context.Background(), user))

	mock.ExpectExec(`UPDATE users SET`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.Update(context.Background(), user), pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListFilters(t *testing.T) {
	now := time.Now()

	t.Run("all", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(`SELECT .* FROM users ORDER BY created_at DESC`).
			WillReturnRows(pgxmock.NewRows(userColumnNames).
				AddRow("u1", "Ana", "Diaz", "Ruiz", "1", "a@b.c", "h", "ADMIN", true, now, now).
				AddRow("u2", "Luis", "Paz", "Gil", "2", "l@b.c", "h", "INTERNO", false, now, now))

		users, err := repo.List(context.Background(), domain.UserFilterAll)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("inactive", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(`FROM users WHERE status=\$1 ORDER BY created_at DESC`).
			WithArgs(false).
			WillReturnRows(pgxmock.NewRows(userColumnNames))

		users, err := repo.List(context.Background(), domain.UserFilterInactive)
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}
