// Package secrets implements the authenticated encryption layer used to
// keep TOTP secrets confidential at rest and to seal challenge token
// payloads.
//
// A single 32-byte AES-256 key is derived from the server-wide master
// secret via PBKDF2-HMAC-SHA256 (100,000 iterations, fixed application
// salt). Blobs produced by Encrypt are self-contained (nonce + ciphertext
// + GCM tag) and base64 URL-safe, so they can be persisted in document
// fields or carried in request bodies without further encoding.
//
// Inspect failures with errors.Is against the package sentinels, most
// importantly ErrInvalidCiphertext which covers both malformed input and
// failed integrity checks.
package secrets
