package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"lockdesk/internal/observability"
)

// JWTVerifier validates HS256 access tokens issued by the identity provider
// using a shared secret. Used when the provider's signing key is available
// locally and a network round trip per request is not acceptable.
type JWTVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		observability.RecordIdentityVerification(ctx, "local", "invalid_credential")
		return nil, ErrInvalidCredential
	}
	if claims.Subject == "" {
		observability.RecordIdentityVerification(ctx, "local", "invalid_credential")
		return nil, ErrInvalidCredential
	}
	observability.RecordIdentityVerification(ctx, "local", "success")
	return &Principal{ID: claims.Subject, Email: claims.Email}, nil
}
