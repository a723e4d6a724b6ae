package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/chat-portal/internal/domain"
)

const recoveryKeyPrefix = "recovery:"

// ErrRecoveryCodeNotFound means the code expired or was never issued.
var ErrRecoveryCodeNotFound = errors.New("recovery code not found")

// HSET on an existing hash keeps its TTL; the EXISTS guard stops an expired
// key from being recreated without one.
var markVerifiedScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	redis.call("HSET", KEYS[1], "verified", "1")
	return 1
end
return 0
`)

// RecoveryCodeRepository keeps one pending recovery code per email.
type RecoveryCodeRepository interface {
	Save(ctx context.Context, code *domain.RecoveryCode, ttl time.Duration) error
	// Get returns nil, nil when no unexpired code exists.
	Get(ctx context.Context, email string) (*domain.RecoveryCode, error)
	MarkVerified(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}

type recoveryCodeRepository struct {
	client redis.UniversalClient
}

// NewRecoveryCodeRepository returns a Redis-backed implementation.
func NewRecoveryCodeRepository(client redis.UniversalClient) RecoveryCodeRepository {
	return &recoveryCodeRepository{client: client}
}

func recoveryKey(email string) string {
	return recoveryKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (r *recoveryCodeRepository) Save(ctx context.Context, code *domain.RecoveryCode, ttl time.Duration) error {
	key := recoveryKey(code.Email)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "code", code.Code, "verified", "0")
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save recovery code: %w", err)
	}
	code.ExpiresAt = time.Now().Add(ttl)
	return nil
}

func (r *recoveryCodeRepository) Get(ctx context.Context, email string) (*domain.RecoveryCode, error) {
	key := recoveryKey(email)
	values, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load recovery code: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load recovery code ttl: %w", err)
	}
	code := &domain.RecoveryCode{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Code:     values["code"],
		Verified: values["verified"] == "1",
	}
	if ttl > 0 {
		code.ExpiresAt = time.Now().Add(ttl)
	}
	return code, nil
}

func (r *recoveryCodeRepository) MarkVerified(ctx context.Context, email string) error {
	updated, err := markVerifiedScript.Run(ctx, r.client, []string{recoveryKey(email)}).Int()
	if err != nil {
		return fmt.Errorf("mark recovery code verified: %w", err)
	}
	if updated == 0 {
		return ErrRecoveryCodeNotFound
	}
	return nil
}

func (r *recoveryCodeRepository) Delete(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, recoveryKey(email)).Err(); err != nil {
		return fmt.Errorf("delete recovery code: %w", err)
	}
	return nil
}
