package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/auth"
)

func signed(t *testing.T, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signed(t, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-me",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: "me@example.com",
		Role:  "business",
	})

	id, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if id.User.ID != "u-me" || id.User.Email != "me@example.com" || string(id.User.Role) != "business" {
		t.Fatalf("identity = %+v", id.User)
	}
	if !id.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", id.ExpiresAt, exp)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b"} {
		if _, err := auth.ParseToken(token); err == nil {
			t.Errorf("ParseToken(%q) accepted garbage", token)
		}
	}
}

func TestParseTokenRequiresSubject(t *testing.T) {
	token := signed(t, auth.Claims{Email: "anon@example.com"})
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatal("token without a subject must be rejected")
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()

	id := auth.Identity{ExpiresAt: now.Add(-time.Minute)}
	if !id.Expired(now) {
		t.Error("past expiry must report expired")
	}

	id = auth.Identity{ExpiresAt: now.Add(time.Minute)}
	if id.Expired(now) {
		t.Error("future expiry must not report expired")
	}

	// No expiry claim: never expires client-side.
	if (auth.Identity{}).Expired(now) {
		t.Error("zero expiry must not report expired")
	}
}
