package auth

import (
	"math"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/chat-portal/internal/domain"
)

// Claims is the read-only view of a token payload used by the portal.
type Claims struct {
	Email string
	Role  domain.Role
	// Status is nil when the claim is absent; only an explicit false disables the account.
	Status *bool
	ID     string
	// ExpiresAt is nil when exp is absent or not numeric.
	ExpiresAt *jwt.NumericDate
	Raw       jwt.MapClaims

	exp    float64
	hasExp bool
}

func newClaims(raw jwt.MapClaims) *Claims {
	c := &Claims{Raw: raw}

	c.Email, _ = raw["email"].(string)
	if role, ok := raw["role"].(string); ok {
		c.Role = domain.Role(role)
	}
	if status, ok := raw["status"].(bool); ok {
		c.Status = &status
	}
	c.ID = stringClaim(raw["id"])

	if exp, ok := raw["exp"].(float64); ok && !math.IsNaN(exp) && !math.IsInf(exp, 0) {
		c.exp = exp
		c.hasExp = true
		sec, frac := math.Modf(exp)
		c.ExpiresAt = jwt.NewNumericDate(time.Unix(int64(sec), int64(frac*1e9)))
	}
	return c
}

// Active is false only when the token explicitly carries status=false.
func (c *Claims) Active() bool {
	return c.Status == nil || *c.Status
}

// ExpiredAt reports whether the claims are expired at now. A missing exp counts
// as expired; validity requires now to be strictly before exp.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if !c.hasExp {
		return true
	}
	return !(float64(now.UnixMilli()) < c.exp*1000)
}

func stringClaim(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
