package credentials

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStatus describes a stored token as seen by the login tooling.
type TokenStatus int

const (
	TokenMissing TokenStatus = iota
	TokenInvalid
	TokenExpired
	TokenValid
)

var tokenStatusNames = []string{"TokenMissing", "TokenInvalid", "TokenExpired", "TokenValid"}

func (t TokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

// Status reports whether token is usable at time now.
//
// Tokens are opaque to the API client, so only JWT-shaped tokens (three dot separated segments) are
// inspected; any other non-empty token is TokenValid. Signatures are not verified.
func Status(token string, now time.Time) TokenStatus {
	if token == "" {
		return TokenMissing
	}

	if strings.Count(token, ".") != 2 {
		return TokenValid
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return TokenInvalid
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return TokenExpired
	}

	return TokenValid
}

// ExpiresAt returns the exp claim of a JWT token, if it has one.
func ExpiresAt(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
