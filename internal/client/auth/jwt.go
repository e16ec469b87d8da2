// Package auth holds the client's view of the backend session: the access
// token issued by the backend and the owner id carried in it.
//
// The client never sees the signing key, so tokens are decoded without
// signature verification. The backend verifies every call; the client only
// needs the owner id and the expiry to refuse work it knows will be rejected.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the claims the backend puts in an access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// Owner returns the user id, falling back to the standard subject claim.
func (c *Claims) Owner() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// ParseToken decodes tokenString without verifying its signature.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if claims.Owner() == "" {
		return nil, fmt.Errorf("%w: no user id", common.ErrInvalidToken)
	}
	return claims, nil
}

// Expired reports whether the token has an expiry at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}
