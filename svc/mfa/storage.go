package mfa

import (
	"context"
	"time"
)

// Storage persists MFA credential records in the external document store.
// Implementations must treat an absent record as ErrCredentialNotFound —
// never auto-create one — and must surface store failures instead of
// pretending the write succeeded.
type Storage interface {
	// Get returns the credential for userID or ErrCredentialNotFound.
	Get(ctx context.Context, userID string) (*Credential, error)

	// Upsert creates the credential or fully replaces an existing one.
	// Used at enrollment start, where an abandoned un-enabled setup is
	// legitimately overwritten.
	Upsert(ctx context.Context, cred *Credential) error

	// Update fully replaces an existing credential and fails with
	// ErrCredentialNotFound if none exists.
	Update(ctx context.Context, cred *Credential) error

	// ConsumeRecoveryCode marks the recovery code with the given hash as
	// used, but only if it is currently unused. The conditional write is
	// the guard against double-spending the same code under concurrent
	// verification attempts. It also stamps LastUsedAt. Returns false when
	// no unused code with that hash exists.
	ConsumeRecoveryCode(ctx context.Context, userID, hash string, now time.Time) (bool, error)

	// UpdateLastUsed stamps LastUsedAt after a successful TOTP verification.
	UpdateLastUsed(ctx context.Context, userID string, now time.Time) error
}

// ActivityLogger records security-relevant events in the user activity
// feed. Logging failures must never fail the surrounding operation.
type ActivityLogger interface {
	Log(ctx context.Context, userID, activityType, message string) error
}

// Activity event types emitted by the service.
const (
	ActivitySetupInitiated           = "MFA_SETUP_INITIATED"
	ActivityEnabled                  = "MFA_ENABLED"
	ActivityVerificationSuccess      = "MFA_VERIFICATION_SUCCESS"
	ActivityVerificationFailed       = "MFA_VERIFICATION_FAILED"
	ActivityRecoveryCodeUsed         = "MFA_RECOVERY_CODE_USED"
	ActivityDisabled                 = "MFA_DISABLED"
	ActivityRecoveryCodesRegenerated = "MFA_RECOVERY_CODES_REGENERATED"
)
