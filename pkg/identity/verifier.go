package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Claims are the profile claims yielded by the external identity-token
// verifier for a successfully verified primary login.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// Verifier validates an opaque primary-identity token and returns the
// stable user identifier and profile claims it asserts.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, token string) (*Claims, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (*Claims, error) {
	return f(ctx, token)
}

// Config holds the settings for the HTTP verifier.
type Config struct {
	VerifyURL string        `env:"IDENTITY_VERIFY_URL,required"`       // VerifyURL is the identity provider's token verification endpoint.
	Timeout   time.Duration `env:"IDENTITY_VERIFY_TIMEOUT" envDefault:"5s"` // Timeout bounds a single verification round trip.
}

// HTTPVerifier verifies identity tokens against a remote identity
// provider endpoint. The provider receives the token and answers with the
// user's claims, or a non-200 status for an invalid or expired token.
type HTTPVerifier struct {
	cfg    Config
	client *http.Client
}

// NewHTTPVerifier returns a verifier calling cfg.VerifyURL.
func NewHTTPVerifier(cfg Config) *HTTPVerifier {
	return &HTTPVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrVerificationFailed, resp.StatusCode)
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
