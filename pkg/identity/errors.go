package identity

import "errors"

var (
	ErrInvalidToken       = errors.New("invalid or expired identity token")
	ErrVerificationFailed = errors.New("identity verification failed")
)
