package recovery

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// CodeLength is the number of alphanumeric characters per code,
	// excluding the readability separator.
	CodeLength = 8

	// charset deliberately excludes lowercase: codes are normalized to
	// uppercase before hashing, so case carries no entropy.
	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// hashSalt is distinct from the cipher key salt so recovery code
	// digests and the encryption key never share a derivation domain.
	hashSalt = "skillbridge_recovery_salt"

	hashIterations = 100_000
	hashLength     = 32
)

// GenerateCodes creates count single-use recovery codes. Each code is 8
// uppercase alphanumeric characters formatted as two 4-character halves
// (XXXX-XXXX) for readability. Plaintext codes are returned exactly once;
// only hashes are ever stored.
func GenerateCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidCodeCount
	}

	codes := make([]string, count)
	for i := range count {
		var b strings.Builder
		for range CodeLength {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
			if err != nil {
				return nil, errors.Join(ErrFailedToGenerateCode, err)
			}
			b.WriteByte(charset[n.Int64()])
		}
		code := b.String()
		codes[i] = code[:4] + "-" + code[4:]
	}
	return codes, nil
}

// Normalize strips formatting separators and whitespace and uppercases the
// code, so user input like "ab1c-2de3" hashes identically to "AB1C2DE3".
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	code = strings.ReplaceAll(code, "-", "")
	code = strings.ReplaceAll(code, " ", "")
	return strings.ToUpper(code)
}

// HashCode produces a stable one-way digest of the normalized code using
// PBKDF2-HMAC-SHA256 with a fixed salt. The slow KDF makes offline
// guessing of leaked digests impractical; the fixed salt keeps the digest
// deterministic so stored hashes can be matched without a per-code lookup.
func HashCode(code string) string {
	digest := pbkdf2.Key([]byte(Normalize(code)), []byte(hashSalt), hashIterations, hashLength, sha256.New)
	return base64.RawURLEncoding.EncodeToString(digest)
}

// VerifyCode recomputes the digest of code and compares it against the
// stored hash in constant time.
func VerifyCode(code, storedHash string) bool {
	computed := HashCode(code)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
