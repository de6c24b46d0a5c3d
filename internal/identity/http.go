package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lockdesk/internal/observability"
)

// HTTPVerifier resolves tokens by asking the identity provider directly,
// GET {base}/auth/v1/user with the caller's bearer token. The provider is the
// source of truth for revocation, so this mode never caches.
type HTTPVerifier struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewHTTPVerifier(baseURL, anonKey string, timeout time.Duration) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		anonKey: anonKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		observability.RecordIdentityVerification(ctx, "remote", "lookup_error")
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.anonKey)

	resp, err := v.client.Do(req)
	if err != nil {
		observability.RecordIdentityVerification(ctx, "remote", "lookup_error")
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		observability.RecordIdentityVerification(ctx, "remote", "invalid_credential")
		return nil, ErrInvalidCredential
	default:
		io.Copy(io.Discard, resp.Body)
		observability.RecordIdentityVerification(ctx, "remote", "lookup_error")
		return nil, fmt.Errorf("identity provider returned %d", resp.StatusCode)
	}

	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		observability.RecordIdentityVerification(ctx, "remote", "lookup_error")
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if body.ID == "" {
		observability.RecordIdentityVerification(ctx, "remote", "invalid_credential")
		return nil, ErrInvalidCredential
	}
	observability.RecordIdentityVerification(ctx, "remote", "success")
	return &Principal{ID: body.ID, Email: body.Email}, nil
}
