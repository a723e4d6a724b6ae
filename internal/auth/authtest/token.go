// Package authtest builds unsigned tokens for tests of token consumers.
package authtest

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Token encodes claims as a three-segment token with a dummy signature.
func Token(claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(claims)
	if err != nil {
		panic(err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".signature"
}

// Valid is an active token for role expiring an hour after now.
func Valid(role string, now time.Time) string {
	return Token(map[string]any{
		"email":  "user@example.com",
		"role":   role,
		"status": true,
		"id":     "user-1",
		"exp":    now.Add(time.Hour).Unix(),
	})
}

// Expired is an active token for role that expired a minute before now.
func Expired(role string, now time.Time) string {
	return Token(map[string]any{
		"email":  "user@example.com",
		"role":   role,
		"status": true,
		"id":     "user-1",
		"exp":    now.Add(-time.Minute).Unix(),
	})
}

// Disabled is an unexpired token whose status claim is false.
func Disabled(role string, now time.Time) string {
	return Token(map[string]any{
		"email":  "user@example.com",
		"role":   role,
		"status": false,
		"id":     "user-1",
		"exp":    now.Add(time.Hour).Unix(),
	})
}
