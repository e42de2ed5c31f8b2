package mfa

import "time"

// RecoveryCode is a single-use backup factor embedded in the credential
// record. The hash is set once at generation and never mutated; only
// Used/UsedAt change, and only from unused to used.
type RecoveryCode struct {
	Hash      string     `bson:"hash" json:"hash"`
	Used      bool       `bson:"used" json:"used"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UsedAt    *time.Time `bson:"used_at,omitempty" json:"used_at,omitempty"`
}

// Credential is the per-user MFA record, keyed by user id. At most one
// exists per user. The TOTP secret is stored only as an encrypted blob.
//
// Enabled is true only after the first correct TOTP code was presented
// against the setup challenge; SetupCompleted distinguishes "secret
// generated, awaiting first verification" from "fully enrolled". Disabling
// is soft: the flag flips and DisabledAt is set, the ciphertext stays.
type Credential struct {
	UserID           string         `bson:"_id" json:"uid"`
	SecretCiphertext string         `bson:"secret" json:"-"`
	Enabled          bool           `bson:"enabled" json:"enabled"`
	SetupCompleted   bool           `bson:"setup_completed" json:"setup_completed"`
	RecoveryCodes    []RecoveryCode `bson:"recovery_codes" json:"recovery_codes"`

	CreatedAt                  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt                  time.Time  `bson:"updated_at" json:"updated_at"`
	VerifiedAt                 *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	DisabledAt                 *time.Time `bson:"disabled_at,omitempty" json:"disabled_at,omitempty"`
	LastUsedAt                 *time.Time `bson:"last_used_at,omitempty" json:"last_used_at,omitempty"`
	RecoveryCodesRegeneratedAt *time.Time `bson:"recovery_codes_regenerated_at,omitempty" json:"recovery_codes_regenerated_at,omitempty"`
}

// UnusedRecoveryCodes reports how many recovery codes remain available.
func (c *Credential) UnusedRecoveryCodes() int {
	n := 0
	for _, rc := range c.RecoveryCodes {
		if !rc.Used {
			n++
		}
	}
	return n
}
