package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/chat-portal/internal/auth"
	"github.com/spec-kit/chat-portal/internal/credentials"
)

var (
	// ErrTokenNotReceived means a 2xx login or registration answer had an empty body.
	ErrTokenNotReceived = errors.New("token not received from server")
	// ErrAccountInactive means the issued token carries status=false.
	ErrAccountInactive = errors.New("your account is inactive, contact the administrator")
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of a self-registration POST /users/save.
type RegisterRequest struct {
	FullName       string `json:"fullName"`
	FirstLastName  string `json:"firstLastName"`
	SecondLastName string `json:"secondLastName"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

// Login exchanges credentials for a token, stores it and returns its claims.
// Claims are nil when the payload is unreadable. A token of a disabled
// account is discarded.
func (c *Client) Login(ctx context.Context, store credentials.Store, in LoginRequest) (*auth.Claims, error) {
	token, err := c.requestToken(ctx, "/auth/login", in)
	if err != nil {
		return nil, err
	}

	store.Save(token)
	claims, ok := auth.DecodeClaims(token)
	if !ok {
		return nil, nil
	}
	if !claims.Active() {
		store.Clear()
		return nil, ErrAccountInactive
	}
	if claims.ID != "" {
		store.SaveUserID(claims.ID)
	}
	return claims, nil
}

// Register creates an account and stores the returned token.
func (c *Client) Register(ctx context.Context, store credentials.Store, in RegisterRequest) error {
	token, err := c.requestToken(ctx, "/users/save", in)
	if err != nil {
		return err
	}
	store.Save(token)
	return nil
}

// requestToken posts body and reads a plain-text token answer.
func (c *Client) requestToken(ctx context.Context, path string, body any) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := c.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set(headerAccept, mimeJSON)

	resp, err := c.Do(req, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", textError(resp.StatusCode, text)
	}

	token := strings.TrimSpace(string(text))
	if token == "" {
		return "", ErrTokenNotReceived
	}
	return token, nil
}
