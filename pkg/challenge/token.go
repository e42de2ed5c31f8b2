package challenge

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL bounds how long a challenge token remains valid. Tokens are
// stateless, so the TTL is the only thing limiting their blast radius.
const DefaultTTL = 10 * time.Minute

// Cipher seals and opens token payloads. Satisfied by *secrets.Cipher.
type Cipher interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

// payload is the entire state of a challenge token. It is never persisted;
// verification is a pure function of the token bytes and the clock.
type payload struct {
	UserID   string `json:"uid"`
	IssuedAt int64  `json:"iat"`
	Nonce    string `json:"nonce"`
}

// Manager issues and verifies the short-lived tokens that carry "primary
// authentication already succeeded" between login step one and step two.
//
// There is no server-side store or revocation list: a captured token stays
// valid until it expires. That tradeoff is intentional (see the package
// documentation); callers needing strict single-use must layer a nonce
// cache on top.
type Manager struct {
	cipher Cipher
	ttl    time.Duration
}

// NewManager returns a Manager sealing tokens with cipher. A non-positive
// ttl falls back to DefaultTTL.
func NewManager(cipher Cipher, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{cipher: cipher, ttl: ttl}
}

// Issue creates a token binding userID to the current time. The random
// nonce makes every token unique even within the same second.
func (m *Manager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	data, err := json.Marshal(payload{
		UserID:   userID,
		IssuedAt: time.Now().Unix(),
		Nonce:    uuid.NewString(),
	})
	if err != nil {
		return "", errors.Join(ErrFailedToIssueToken, err)
	}

	token, err := m.cipher.Encrypt(data)
	if err != nil {
		return "", errors.Join(ErrFailedToIssueToken, err)
	}
	return token, nil
}

// Verify decrypts the token and returns the user id it was issued for.
// It fails closed: decryption failure, a malformed payload, or an expired
// issue time all yield an error and an empty user id.
func (m *Manager) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	data, err := m.cipher.Decrypt(token)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if p.UserID == "" || p.IssuedAt == 0 {
		return "", ErrInvalidToken
	}

	if time.Since(time.Unix(p.IssuedAt, 0)) > m.ttl {
		return "", ErrTokenExpired
	}

	return p.UserID, nil
}

// TTL reports the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
