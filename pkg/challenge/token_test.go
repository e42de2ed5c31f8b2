package challenge_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/stepup/pkg/challenge"
	"github.com/skillbridge/stepup/pkg/secrets"
)

func newCipher(t *testing.T, masterSecret string) *secrets.Cipher {
	t.Helper()
	cipher, err := secrets.New(masterSecret)
	require.NoError(t, err)
	return cipher
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	mgr := challenge.NewManager(newCipher(t, "test-master-secret"), challenge.DefaultTTL)

	token, err := mgr.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestIssueRequiresUserID(t *testing.T) {
	t.Parallel()

	mgr := challenge.NewManager(newCipher(t, "test-master-secret"), challenge.DefaultTTL)

	_, err := mgr.Issue("")
	assert.ErrorIs(t, err, challenge.ErrMissingUserID)
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()

	mgr := challenge.NewManager(newCipher(t, "test-master-secret"), challenge.DefaultTTL)

	first, err := mgr.Issue("user-1")
	require.NoError(t, err)
	second, err := mgr.Issue("user-1")
	require.NoError(t, err)

	// Nonce plus random cipher nonce: two tokens for the same user in the
	// same second must still differ.
	assert.NotEqual(t, first, second)
}

func TestVerifyFailsClosed(t *testing.T) {
	t.Parallel()

	cipher := newCipher(t, "test-master-secret")
	mgr := challenge.NewManager(cipher, challenge.DefaultTTL)

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()
		_, err := mgr.Verify("")
		assert.ErrorIs(t, err, challenge.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		_, err := mgr.Verify("not-a-token")
		assert.ErrorIs(t, err, challenge.ErrInvalidToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		t.Parallel()
		token, err := mgr.Issue("user-1")
		require.NoError(t, err)

		_, err = mgr.Verify(token[:len(token)-2] + "zz")
		assert.ErrorIs(t, err, challenge.ErrInvalidToken)
	})

	t.Run("token sealed with a different master secret", func(t *testing.T) {
		t.Parallel()
		other := challenge.NewManager(newCipher(t, "other-master-secret"), challenge.DefaultTTL)
		token, err := other.Issue("user-1")
		require.NoError(t, err)

		_, err = mgr.Verify(token)
		assert.ErrorIs(t, err, challenge.ErrInvalidToken)
	})

	t.Run("payload without user id", func(t *testing.T) {
		t.Parallel()
		blob, err := cipher.Encrypt([]byte(`{"iat":1700000000,"nonce":"n"}`))
		require.NoError(t, err)

		_, err = mgr.Verify(blob)
		assert.ErrorIs(t, err, challenge.ErrInvalidToken)
	})
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	cipher := newCipher(t, "test-master-secret")
	mgr := challenge.NewManager(cipher, 10*time.Minute)

	// Craft a token issued 11 minutes ago.
	issuedAt := time.Now().Add(-11 * time.Minute).Unix()
	blob, err := cipher.Encrypt(fmt.Appendf(nil, `{"uid":"user-1","iat":%d,"nonce":"n"}`, issuedAt))
	require.NoError(t, err)

	userID, err := mgr.Verify(blob)
	assert.ErrorIs(t, err, challenge.ErrTokenExpired)
	assert.Empty(t, userID)
}

func TestDefaultTTLFallback(t *testing.T) {
	t.Parallel()

	mgr := challenge.NewManager(newCipher(t, "test-master-secret"), 0)
	assert.Equal(t, challenge.DefaultTTL, mgr.TTL())
}
