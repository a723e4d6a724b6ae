package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spec-kit/chat-portal/internal/credentials"
	"github.com/spec-kit/chat-portal/internal/domain"
	"github.com/spec-kit/chat-portal/pkg/validator"
)

// ErrUserNotFound is returned when the backend has no user with the requested id.
var ErrUserNotFound = errors.New("user not found")

// Result is a read answer that may have been soft-failed by a 401/403.
// Degraded results carry a zero Value and the backend message.
type Result[T any] struct {
	Value    T
	Message  string
	Degraded bool
}

// CreateUserRequest is the admin form behind POST /users/save.
type CreateUserRequest struct {
	FullName       string      `json:"fullName" validate:"required"`
	FirstLastName  string      `json:"firstLastName" validate:"required"`
	SecondLastName string      `json:"secondLastName" validate:"required"`
	Phone          string      `json:"phone" validate:"required,len=10,numeric"`
	Email          string      `json:"email" validate:"required,email"`
	Password       string      `json:"password" validate:"required,min=8"`
	Role           domain.Role `json:"role,omitempty"`
}

// UpdateUserRequest is the body of POST /users/update. Every field is required.
type UpdateUserRequest struct {
	ID             string      `json:"id" validate:"required"`
	FullName       string      `json:"fullName" validate:"required"`
	FirstLastName  string      `json:"firstLastName" validate:"required"`
	SecondLastName string      `json:"secondLastName" validate:"required"`
	Phone          string      `json:"phone" validate:"required"`
	Email          string      `json:"email" validate:"required"`
	Role           domain.Role `json:"role" validate:"required"`
}

// ChangePasswordRequest is the body of POST /users/change-password-user.
type ChangePasswordRequest struct {
	UserID          string `json:"userId" validate:"required"`
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

var userListPaths = map[domain.UserFilter]string{
	domain.UserFilterAll:      "/users/all",
	domain.UserFilterActive:   "/users/active",
	domain.UserFilterInactive: "/users/inactive",
}

// ListUsers reads a slice of the user directory. 401/403 degrade to an empty list.
func (c *Client) ListUsers(ctx context.Context, store credentials.Store, filter domain.UserFilter) (*Result[[]domain.User], error) {
	path, ok := userListPaths[filter]
	if !ok {
		return nil, fmt.Errorf("unknown user filter %q", filter)
	}
	payload, err := c.call(ctx, store, http.MethodGet, path, path, nil)
	if err != nil {
		return nil, err
	}

	out := &Result[[]domain.User]{Value: []domain.User{}, Message: payload.Message, Degraded: payload.SoftFailed}
	if err := payload.DecodeResult(&out.Value); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

// GetUser loads one user. A 404 is ErrUserNotFound; 401/403 degrade to a nil value.
func (c *Client) GetUser(ctx context.Context, store credentials.Store, id string) (*Result[*domain.User], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user id cannot be empty")
	}
	payload, err := c.call(ctx, store, http.MethodGet, "/users/"+url.PathEscape(id), "/users/{id}", nil)
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Status == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	out := &Result[*domain.User]{Message: payload.Message, Degraded: payload.SoftFailed}
	if payload.SoftFailed {
		return out, nil
	}
	var user domain.User
	if len(payload.Result) == 0 || payload.ResultIsNull() {
		return nil, ErrUserNotFound
	}
	if err := payload.DecodeResult(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	out.Value = &user
	return out, nil
}

// Profile loads the signed-in user: first by the token's id claim, then by
// the stored user id.
func (c *Client) Profile(ctx context.Context, store credentials.Store, tokenID string) (*domain.User, error) {
	var lastErr error
	candidates := []string{tokenID}
	if stored, ok := store.UserID(); ok && stored != tokenID {
		candidates = append(candidates, stored)
	}
	for _, id := range candidates {
		if strings.TrimSpace(id) == "" {
			continue
		}
		res, err := c.GetUser(ctx, store, id)
		if err != nil {
			lastErr = err
			continue
		}
		if res.Value != nil {
			return res.Value, nil
		}
	}
	if lastErr != nil && !errors.Is(lastErr, ErrUserNotFound) {
		return nil, lastErr
	}
	return nil, ErrUserNotFound
}

// CreateUser registers an account on behalf of an administrator and returns
// the backend message. Every non-2xx answer is an error.
func (c *Client) CreateUser(ctx context.Context, store credentials.Store, in CreateUserRequest) (string, error) {
	if err := validator.Validate(in); err != nil {
		return "", err
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	req, err := c.NewRequest(ctx, http.MethodPost, "/users/save", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	copyHeader(req.Header, AuthHeader(store, c.logger))

	resp, err := c.Do(req, "/users/save")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", textError(resp.StatusCode, body)
	}
	message, parsed := errorMessage(body)
	if !parsed {
		message = strings.TrimSpace(string(body))
	}
	return message, nil
}

// ChangeStatus toggles a user's active flag and returns the backend message.
func (c *Client) ChangeStatus(ctx context.Context, store credentials.Store, id string) (*Payload, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("user id cannot be empty")
	}
	return c.write(ctx, store, http.MethodPut, "/users/change-status/"+url.PathEscape(id), "/users/change-status/{id}", nil)
}

// ChangeRole toggles a user's role and returns the backend message.
func (c *Client) ChangeRole(ctx context.Context, store credentials.Store, id string) (*Payload, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("user id cannot be empty")
	}
	return c.write(ctx, store, http.MethodPut, "/users/change-rol/"+url.PathEscape(id), "/users/change-rol/{id}", nil)
}

// UpdateUser saves a profile. Missing fields are rejected before any call.
func (c *Client) UpdateUser(ctx context.Context, store credentials.Store, in UpdateUserRequest) (*Payload, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}
	return c.write(ctx, store, http.MethodPost, "/users/update", "/users/update", in)
}

// ChangePassword reports success only when a 2xx answer carries
// "result": null. Any other 2xx shape is a rejected current password.
func (c *Client) ChangePassword(ctx context.Context, store credentials.Store, in ChangePasswordRequest) (bool, error) {
	if err := validator.Validate(in); err != nil {
		return false, err
	}
	payload, err := c.write(ctx, store, http.MethodPost, "/users/change-password-user", "/users/change-password-user", in)
	if err != nil {
		return false, err
	}
	return payload.ResultIsNull(), nil
}

// call sends a read with AuthHeader and runs it through HandleResponse, so
// 401/403 soft-fail.
func (c *Client) call(ctx context.Context, store credentials.Store, method, path, endpoint string, body any) (*Payload, error) {
	req, err := c.jsonRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	copyHeader(req.Header, AuthHeader(store, c.logger))

	resp, err := c.Do(req, endpoint)
	if err != nil {
		return nil, err
	}
	return HandleResponse(resp)
}

// write sends a state-changing call through DoAuthenticated. A 401 ends the
// session; every other non-2xx answer, 403 included, is an *Error.
func (c *Client) write(ctx context.Context, store credentials.Store, method, path, endpoint string, body any) (*Payload, error) {
	req, err := c.jsonRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set(headerAccept, mimeJSON)

	resp, err := c.DoAuthenticated(store, req, endpoint)
	if err != nil {
		return nil, err
	}
	return strictResponse(resp)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	return c.NewRequest(ctx, method, path, reader)
}

func copyHeader(dst, src http.Header) {
	for key, vals := range src {
		for _, val := range vals {
			dst.Add(key, val)
		}
	}
}
