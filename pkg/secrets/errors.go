package secrets

import "errors"

var (
	ErrMasterSecretNotSet = errors.New("master secret not set")
	ErrCipherInit         = errors.New("failed to initialize cipher")
	ErrEncryptionFailed   = errors.New("failed to encrypt payload")
	ErrInvalidCiphertext  = errors.New("invalid ciphertext")
)
