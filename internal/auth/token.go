// Package auth handles the client side of bearer token authentication.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
)

// ErrUnauthorized signals that the backend rejected our token. The UI layer
// reacts by redirecting to login; the core never navigates.
var ErrUnauthorized = errors.New("unauthorized")

// Claims are the marketplace JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Identity is the authenticated local user derived from the bearer token.
type Identity struct {
	User      model.User
	ExpiresAt time.Time
}

// ParseToken extracts the local user's identity from a bearer token without
// verifying the signature. Verification is the server's job; the client only
// needs the subject and role, plus the expiry so it can prompt for login
// before wasting a round trip.
func ParseToken(token string) (Identity, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("malformed bearer token: %w", err)
	}

	if claims.Subject == "" {
		return Identity{}, errors.New("bearer token has no subject")
	}

	id := Identity{
		User: model.User{
			ID:    claims.Subject,
			Email: claims.Email,
			Role:  model.Role(claims.Role),
		},
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Expired reports whether the token is past its expiry at the given time.
// Tokens without an expiry never expire client-side.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}
