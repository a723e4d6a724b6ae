package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/config"
	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/observability"
)

// ErrSessionExpired is returned by the hard-logout path after the store was cleared.
var ErrSessionExpired = errors.New("session expired, please sign in again")

// Client talks to the REST backend. Calls are never retried; the breaker only
// counts transport failures so backend 4xx/5xx answers never trip it.
type Client struct {
	baseURL        string
	http           *http.Client
	breaker        *gobreaker.CircuitBreaker[*http.Response]
	logger         *zap.Logger
	metrics        *observability.Metrics
	now            func() time.Time
	uploadSuffixes []string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClock overrides the clock used by the proactive expiry check.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics records upstream calls.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New builds a Client for cfg.
func New(cfg config.BackendConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           &http.Client{Timeout: cfg.Timeout()},
		logger:         logger,
		now:            time.Now,
		uploadSuffixes: cfg.UploadAllowedSuffixes,
	}
	for _, opt := range opts {
		opt(c)
	}

	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio
	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     time.Duration(cfg.BreakerOpenSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if ratio <= 0 || counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c
}

// NewRequest builds a request against the backend base URL.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	return req, nil
}

// Do sends req once. endpoint is the route template used for metrics.
func (c *Client) Do(req *http.Request, endpoint string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		c.metrics.RecordUpstream(endpoint, 0, time.Since(start))
		c.logger.Error("backend call failed",
			zap.String("method", req.Method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, endpoint, err)
	}
	c.metrics.RecordUpstream(endpoint, resp.StatusCode, time.Since(start))
	return resp, nil
}

// DoAuthenticated is the hard-logout wrapper. An expired or missing token
// clears the store without calling the backend, and a 401 answer clears it
// afterwards; both return ErrSessionExpired.
func (c *Client) DoAuthenticated(store credentials.Store, req *http.Request, endpoint string) (*http.Response, error) {
	token, ok := store.Get()
	if !ok || auth.IsExpired(token, c.now()) {
		c.logger.Warn("token expired before backend call", zap.String("endpoint", endpoint))
		store.Clear()
		return nil, ErrSessionExpired
	}
	req.Header.Set(headerAuthorization, credentials.Normalize(token))

	resp, err := c.Do(req, endpoint)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.logger.Warn("backend rejected token", zap.String("endpoint", endpoint))
		store.Clear()
		return nil, ErrSessionExpired
	}
	return resp, nil
}

// State exposes the breaker state for readiness checks.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
