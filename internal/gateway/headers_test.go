package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/chat-portal/internal/credentials"
)

func TestAuthHeaderWithToken(t *testing.T) {
	for _, stored := range []string{"abc", "Bearer abc"} {
		store := credentials.NewMemoryStore()
		store.Save(stored)

		h := AuthHeader(store, zap.NewNop())
		assert.Equal(t, "Bearer abc", h.Get("Authorization"))
		assert.Equal(t, "application/json", h.Get("Content-Type"))
		assert.Equal(t, "application/json", h.Get("Accept"))
	}
}

func TestAuthHeaderWithoutTokenWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	h := AuthHeader(credentials.NewMemoryStore(), zap.New(core))
	_, ok := h["Authorization"]
	assert.False(t, ok)
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, 1, logs.FilterMessage("no authentication token found").Len())

	h = AuthHeader(nil, nil)
	assert.Empty(t, h.Get("Authorization"))
}
