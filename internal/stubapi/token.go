package stubapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/auth"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
)

// SignToken issues a development bearer token for the given user.
func SignToken(jwtSecret string, u model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: u.Email,
		Role:  string(u.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}
