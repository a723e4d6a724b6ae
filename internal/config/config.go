package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal and the reference backend.
type Config struct {
	App          AppConfig
	Backend      BackendConfig
	Cookie       CookieConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig describes how the portal reaches the REST backend.
type BackendConfig struct {
	BaseURL               string
	TimeoutSeconds        int
	BreakerFailureRatio   float64
	BreakerMinRequests    uint32
	BreakerOpenSeconds    int
	UploadAllowedSuffixes []string
}

// CookieConfig tunes the cookies that hold client-side credentials.
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
	// MaxAgeDays bounds how long the browser keeps the token cookie.
	MaxAgeDays int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuance parameters of the reference backend.
type AuthConfig struct {
	JWTSecret              string
	AccessTokenTTLMinutes  int
	RecoveryCodeTTLMinutes int
	BcryptCost             int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ratio, err := strconv.ParseFloat(getEnv("BACKEND_BREAKER_FAILURE_RATIO", "0.6"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_BREAKER_FAILURE_RATIO: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "chat-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:               strings.TrimRight(getEnv("API_URL", "http://127.0.0.1:8081"), "/"),
			TimeoutSeconds:        getEnvAsInt("API_TIMEOUT_SECONDS", 60),
			BreakerFailureRatio:   ratio,
			BreakerMinRequests:    uint32(getEnvAsInt("BACKEND_BREAKER_MIN_REQUESTS", 5)),
			BreakerOpenSeconds:    getEnvAsInt("BACKEND_BREAKER_OPEN_SECONDS", 30),
			UploadAllowedSuffixes: getEnvAsList("UPLOAD_ALLOWED_SUFFIXES", []string{".pdf", ".docx", ".txt"}),
		},
		Cookie: CookieConfig{
			Secure:     getEnvAsBool("COOKIE_SECURE", false),
			SameSite:   getEnv("COOKIE_SAMESITE", "Lax"),
			Domain:     os.Getenv("COOKIE_DOMAIN"),
			MaxAgeDays: getEnvAsInt("COOKIE_MAX_AGE_DAYS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			RecoveryCodeTTLMinutes: getEnvAsInt("AUTH_RECOVERY_CODE_TTL_MINUTES", 15),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Notification: NotificationConfig{
			EmailFrom: getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call deadline for backend requests.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// MaxAge returns the token cookie lifetime in seconds.
func (c CookieConfig) MaxAge() int {
	if c.MaxAgeDays <= 0 {
		return 0
	}
	return c.MaxAgeDays * 24 * 60 * 60
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.ToLower(item))
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
