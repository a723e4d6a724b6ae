package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chat-portal/internal/domain"
)

func newRecoveryRepo(t *testing.T) (*miniredis.Miniredis, RecoveryCodeRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRecoveryCodeRepository(client)
}

func TestRecoveryCodeSaveAndGet(t *testing.T) {
	mr, repo := newRecoveryRepo(t)
	ctx := context.Background()

	code := &domain.RecoveryCode{Email: "Ana@Example.com", Code: "123456"}
	require.NoError(t, repo.Save(ctx, code, 15*time.Minute))
	assert.False(t, code.ExpiresAt.IsZero())
	assert.True(t, mr.Exists("recovery:ana@example.com"))
	assert.Equal(t, 15*time.Minute, mr.TTL("recovery:ana@example.com"))

	got, err := repo.Get(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "123456", got.Code)
	assert.False(t, got.Verified)
}

func TestRecoveryCodeSaveReplacesPrevious(t *testing.T) {
	_, repo := newRecoveryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.RecoveryCode{Email: "a@b.c", Code: "111111"}, time.Minute))
	require.NoError(t, repo.MarkVerified(ctx, "a@b.c"))
	require.NoError(t, repo.Save(ctx, &domain.RecoveryCode{Email: "a@b.c", Code: "222222"}, time.Minute))

	got, err := repo.Get(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
	assert.False(t, got.Verified)
}

func TestRecoveryCodeMarkVerified(t *testing.T) {
	mr, repo := newRecoveryRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.MarkVerified(ctx, "nobody@b.c"), ErrRecoveryCodeNotFound)
	assert.False(t, mr.Exists("recovery:nobody@b.c"))

	require.NoError(t, repo.Save(ctx, &domain.RecoveryCode{Email: "a@b.c", Code: "111111"}, time.Minute))
	require.NoError(t, repo.MarkVerified(ctx, "A@B.C"))

	got, err := repo.Get(ctx, "a@b.c")
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Equal(t, time.Minute, mr.TTL("recovery:a@b.c"))
}

func TestRecoveryCodeExpiresAndDeletes(t *testing.T) {
	mr, repo := newRecoveryRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.RecoveryCode{Email: "a@b.c", Code: "111111"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := repo.Get(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, &domain.RecoveryCode{Email: "a@b.c", Code: "111111"}, time.Minute))
	require.NoError(t, repo.Delete(ctx, "a@b.c"))
	got, err = repo.Get(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Nil(t, got)
}
