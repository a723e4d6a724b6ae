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
)

// Password recovery runs without a token; every call posts plain JSON and
// treats any non-2xx answer as an error carrying the body text.

// VerifyCodeRequest is the body of POST /users/verify-recovery-code.
type VerifyCodeRequest struct {
	Email        string `json:"email"`
	RecoveryCode string `json:"recoveryCode"`
}

// ResetPasswordRequest is the body of PUT /users/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// SendRecoveryCode asks the backend to email a recovery code.
func (c *Client) SendRecoveryCode(ctx context.Context, email string) (*Payload, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	return c.plain(ctx, http.MethodPost, "/users/send-recovery-code/"+url.PathEscape(email), "/users/send-recovery-code/{email}", nil)
}

// VerifyRecoveryCode checks code for email.
func (c *Client) VerifyRecoveryCode(ctx context.Context, email, code string) (*Payload, error) {
	return c.plain(ctx, http.MethodPost, "/users/verify-recovery-code", "/users/verify-recovery-code",
		VerifyCodeRequest{Email: email, RecoveryCode: code})
}

// ResetPassword sets a new password for a verified email.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (*Payload, error) {
	return c.plain(ctx, http.MethodPut, "/users/reset-password", "/users/reset-password",
		ResetPasswordRequest{Email: email, NewPassword: newPassword})
}

func (c *Client) plain(ctx context.Context, method, path, endpoint string, body any) (*Payload, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := c.NewRequest(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set(headerContentType, mimeJSON)
	}

	resp, err := c.Do(req, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, textError(resp.StatusCode, text)
	}
	return parsePayload(text)
}
