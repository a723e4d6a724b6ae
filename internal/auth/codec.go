package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// BearerPrefix is the scheme marker stored in front of every token.
const BearerPrefix = "Bearer "

var urlSafeToStd = strings.NewReplacer("-", "+", "_", "/")

// StripBearer removes a single leading scheme marker.
func StripBearer(token string) string {
	return strings.TrimPrefix(strings.TrimSpace(token), BearerPrefix)
}

// WithBearer returns token carrying the scheme marker exactly once.
func WithBearer(token string) string {
	raw := strings.TrimSpace(StripBearer(token))
	if raw == "" {
		return ""
	}
	return BearerPrefix + raw
}

// DecodeClaims reads the payload segment of token. It never verifies the
// signature; the backend stays the only authority on authenticity. Any
// malformed input yields (nil, false).
func DecodeClaims(token string) (*Claims, bool) {
	segments := strings.Split(StripBearer(token), ".")
	if len(segments) < 2 {
		return nil, false
	}

	payload, err := decodeSegment(segments[1])
	if err != nil {
		return nil, false
	}

	var raw jwt.MapClaims
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return nil, false
	}
	return newClaims(raw), true
}

// IsExpired decodes token and compares exp*1000 against now in milliseconds.
// Undecodable tokens and tokens without exp are expired.
func IsExpired(token string, now time.Time) bool {
	claims, ok := DecodeClaims(token)
	if !ok {
		return true
	}
	return claims.ExpiredAt(now)
}

// decodeSegment maps the URL-safe alphabet back to the standard one and
// decodes with optional padding.
func decodeSegment(seg string) ([]byte, error) {
	std := strings.TrimRight(urlSafeToStd.Replace(seg), "=")
	return base64.RawStdEncoding.DecodeString(std)
}
