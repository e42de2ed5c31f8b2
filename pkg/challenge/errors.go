package challenge

import "errors"

var (
	ErrMissingUserID      = errors.New("missing user id")
	ErrFailedToIssueToken = errors.New("failed to issue challenge token")
	ErrInvalidToken       = errors.New("invalid challenge token")
	ErrTokenExpired       = errors.New("challenge token expired")
)
