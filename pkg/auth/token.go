package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the embedded exp claim without verifying the signature.
// The client uses this only to short-circuit obviously dead tokens; the
// server's ValidateToken endpoint remains the security authority.
func TokenExpiry(tokenString string) (time.Time, error) {
	trimmed := strings.TrimSpace(tokenString)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("token is empty")
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(trimmed, claims); err != nil {
		return time.Time{}, fmt.Errorf("decoding token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token's embedded expiry is at or before now.
// Tokens without an exp claim are treated as unexpired; a token that cannot
// be decoded at all is treated as expired.
func IsExpired(tokenString string, now time.Time) bool {
	expiry, err := TokenExpiry(tokenString)
	if err != nil {
		return true
	}
	if expiry.IsZero() {
		return false
	}
	return !expiry.After(now)
}

// RefreshLeadTime is how far before expiry a proactive refresh is scheduled.
const RefreshLeadTime = 5 * time.Minute

// RefreshDelay returns the wait before a proactive refresh should fire,
// clamped to zero for tokens already inside the lead window.
func RefreshDelay(expiry, now time.Time) time.Duration {
	if expiry.IsZero() {
		return 0
	}
	delay := expiry.Sub(now) - RefreshLeadTime
	if delay < 0 {
		return 0
	}
	return delay
}
