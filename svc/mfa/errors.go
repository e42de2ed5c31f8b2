package mfa

import "errors"

var (
	// ErrValidation covers missing or malformed input; no mutation is attempted.
	ErrValidation = errors.New("validation failed")

	// ErrCredentialNotFound means the user has no MFA record at all. It is a
	// distinct state ("not enrolled"), never silently replaced by a default
	// record.
	ErrCredentialNotFound = errors.New("mfa credential not found")

	ErrAlreadyEnabled = errors.New("mfa already enabled for this account")
	ErrNotEnabled     = errors.New("mfa not enabled for this account")
	ErrSetupNotFound  = errors.New("mfa setup not found")

	// ErrInvalidMFAToken covers a missing, malformed, or expired challenge
	// token. Verification fails closed.
	ErrInvalidMFAToken = errors.New("invalid or expired mfa token")

	// ErrInvalidCode is returned for a wrong TOTP code and for a wrong or
	// already-consumed recovery code alike, so the response never reveals
	// which factor type failed.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrStoreFailed wraps document store failures. Security-state mutations
	// never fall back to a silent success.
	ErrStoreFailed = errors.New("credential store operation failed")

	ErrInvalidStateTransition = errors.New("invalid login state transition")
)
