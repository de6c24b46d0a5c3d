package identity

import (
	"context"
	"errors"
)

// Principal is the resolved caller of an admin request.
type Principal struct {
	ID    string
	Email string
}

// ErrInvalidCredential covers every verification failure that should read as
// "we do not know who you are": malformed tokens, bad signatures, expiry,
// tokens the upstream provider rejects. Callers must not leak the underlying
// cause to the client.
var ErrInvalidCredential = errors.New("invalid credential")

// Verifier resolves a bearer credential to a principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}
