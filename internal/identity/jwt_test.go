package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, secret string, mutate func(*jwt.RegisteredClaims)) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "lockdesk",
		Audience:  jwt.ClaimStrings{"lockdesk-admin"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	if mutate != nil {
		mutate(&claims)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, struct {
		Email string `json:"email"`
		jwt.RegisteredClaims
	}{Email: "admin@example.com", RegisteredClaims: claims})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTVerifierValidToken(t *testing.T) {
	v := NewJWTVerifier(testSecret, "lockdesk", "lockdesk-admin")

	p, err := v.Verify(context.Background(), signToken(t, testSecret, nil))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if p.ID != "user-1" {
		t.Errorf("ID = %q, want user-1", p.ID)
	}
	if p.Email != "admin@example.com" {
		t.Errorf("Email = %q", p.Email)
	}
}

func TestJWTVerifierRejections(t *testing.T) {
	v := NewJWTVerifier(testSecret, "lockdesk", "lockdesk-admin")

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.jwt"},
		{"wrong secret", signToken(t, strings.Repeat("x", 32), nil)},
		{"expired", signToken(t, testSecret, func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		})},
		{"wrong issuer", signToken(t, testSecret, func(c *jwt.RegisteredClaims) {
			c.Issuer = "someone-else"
		})},
		{"wrong audience", signToken(t, testSecret, func(c *jwt.RegisteredClaims) {
			c.Audience = jwt.ClaimStrings{"other-service"}
		})},
		{"missing subject", signToken(t, testSecret, func(c *jwt.RegisteredClaims) {
			c.Subject = ""
		})},
		{"no expiry", signToken(t, testSecret, func(c *jwt.RegisteredClaims) {
			c.ExpiresAt = nil
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tc.token)
			if !errors.Is(err, ErrInvalidCredential) {
				t.Errorf("Verify() error = %v, want ErrInvalidCredential", err)
			}
		})
	}
}

func TestJWTVerifierRejectsNoneAlgorithm(t *testing.T) {
	v := NewJWTVerifier(testSecret, "lockdesk", "lockdesk-admin")

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "lockdesk",
		Audience:  jwt.ClaimStrings{"lockdesk-admin"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := v.Verify(context.Background(), signed); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("Verify() error = %v, want ErrInvalidCredential", err)
	}
}
