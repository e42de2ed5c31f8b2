package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/stepup/pkg/identity"
)

func newVerifier(t *testing.T, handler http.HandlerFunc) *identity.HTTPVerifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return identity.NewHTTPVerifier(identity.Config{
		VerifyURL: srv.URL,
		Timeout:   5 * time.Second,
	})
}

func TestHTTPVerifier(t *testing.T) {
	t.Parallel()

	t.Run("returns claims for a valid token", func(t *testing.T) {
		t.Parallel()
		verifier := newVerifier(t, func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "good-token", req["token"])

			_ = json.NewEncoder(w).Encode(identity.Claims{UserID: "user-1", Email: "user-1@example.com"})
		})

		claims, err := verifier.Verify(context.Background(), "good-token")
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "user-1@example.com", claims.Email)
	})

	t.Run("rejects empty token without a round trip", func(t *testing.T) {
		t.Parallel()
		verifier := newVerifier(t, func(http.ResponseWriter, *http.Request) {
			t.Error("verifier endpoint must not be called")
		})

		_, err := verifier.Verify(context.Background(), "")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("401 means invalid token", func(t *testing.T) {
		t.Parallel()
		verifier := newVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := verifier.Verify(context.Background(), "expired-token")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("5xx means verification failed, not invalid", func(t *testing.T) {
		t.Parallel()
		verifier := newVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := verifier.Verify(context.Background(), "some-token")
		assert.ErrorIs(t, err, identity.ErrVerificationFailed)
		assert.NotErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("claims without a user id are invalid", func(t *testing.T) {
		t.Parallel()
		verifier := newVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(identity.Claims{Email: "orphan@example.com"})
		})

		_, err := verifier.Verify(context.Background(), "some-token")
		assert.ErrorIs(t, err, identity.ErrInvalidToken)
	})

	t.Run("unreachable provider", func(t *testing.T) {
		t.Parallel()
		verifier := identity.NewHTTPVerifier(identity.Config{
			VerifyURL: "http://127.0.0.1:1/verify",
			Timeout:   time.Second,
		})

		_, err := verifier.Verify(context.Background(), "some-token")
		assert.ErrorIs(t, err, identity.ErrVerificationFailed)
	})
}

func TestVerifierFunc(t *testing.T) {
	t.Parallel()

	verifier := identity.VerifierFunc(func(_ context.Context, token string) (*identity.Claims, error) {
		if token != "ok" {
			return nil, identity.ErrInvalidToken
		}
		return &identity.Claims{UserID: "user-1"}, nil
	})

	claims, err := verifier.Verify(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = verifier.Verify(context.Background(), "nope")
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}
