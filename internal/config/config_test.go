package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("UPLOAD_ALLOWED_SUFFIXES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8081", cfg.Backend.BaseURL)
	assert.Equal(t, []string{".pdf", ".docx", ".txt"}, cfg.Backend.UploadAllowedSuffixes)
	assert.Equal(t, 60*time.Second, cfg.Backend.Timeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com/")
	t.Setenv("UPLOAD_ALLOWED_SUFFIXES", " .PDF, .md ,")
	t.Setenv("COOKIE_MAX_AGE_DAYS", "2")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, []string{".pdf", ".md"}, cfg.Backend.UploadAllowedSuffixes)
	assert.Equal(t, 2*24*60*60, cfg.Cookie.MaxAge())
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REDIS_DB", "0")
	t.Setenv("BACKEND_BREAKER_FAILURE_RATIO", "lots")
	_, err = Load()
	assert.Error(t, err)
}
