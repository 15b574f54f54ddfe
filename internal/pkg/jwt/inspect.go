// internal/pkg/jwt/inspect.go
package jwt

import (
	"fmt"
	"time"

	"bookdesk-service/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
)

// Parse decodes the claims of token without checking its signature. The
// token is opaque to this service; only the backend verifies it.
func Parse(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// Inspect summarises token for display. now is the reference time for Expired.
func Inspect(token string, now time.Time) (*auth.TokenInfo, error) {
	claims, err := Parse(token)
	if err != nil {
		return nil, err
	}

	info := &auth.TokenInfo{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		info.ExpiresAt = &exp
		info.Expired = !now.Before(exp)
	}
	return info, nil
}
