package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived key length required for AES-256.
	KeySize = 32

	// KDFIterations is the PBKDF2 iteration count. Deliberately expensive
	// so the master secret survives offline guessing if ciphertexts leak.
	KDFIterations = 100_000

	// kdfSalt provides domain separation for the cipher key. It is fixed
	// application-wide; the master secret carries the entropy.
	kdfSalt = "skillbridge_mfa_salt"
)

// Cipher performs authenticated symmetric encryption with a key derived
// from a server-wide master secret. The master secret does not need to be
// a raw AES key; it is stretched through PBKDF2-HMAC-SHA256 once at
// construction time.
//
// The same cipher instance is shared by the TOTP secret storage and the
// challenge token manager, so it accepts arbitrary byte payloads.
type Cipher struct {
	aead cipher.AEAD
}

// New derives the encryption key from masterSecret and returns a ready
// cipher. Key derivation runs once; Encrypt/Decrypt are cheap afterwards.
func New(masterSecret string) (*Cipher, error) {
	if masterSecret == "" {
		return nil, ErrMasterSecretNotSet
	}

	key := pbkdf2.Key([]byte(masterSecret), []byte(kdfSalt), KDFIterations, KeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrCipherInit, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrCipherInit, err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext with AES-256-GCM and returns a self-contained
// blob: nonce + ciphertext + tag, base64 URL-safe encoded so it can be
// stored in a document field or embedded in a URL as-is.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. It returns ErrInvalidCiphertext
// if the blob is malformed or the integrity check fails.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return nil, ErrInvalidCiphertext
	}
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrInvalidCiphertext, err)
	}
	return plaintext, nil
}

// EncryptString is a convenience wrapper for string payloads.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	return c.Encrypt([]byte(plaintext))
}

// DecryptString is a convenience wrapper for string payloads.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	plaintext, err := c.Decrypt(encoded)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
