package mfa

import "time"

// Config holds the MFA subsystem settings.
type Config struct {
	// MasterSecret is the server-wide secret the cipher key is derived
	// from. It protects every stored TOTP secret and every challenge
	// token; rotating it invalidates both.
	MasterSecret string `env:"MFA_MASTER_SECRET,required"`

	// Issuer is the service name shown in authenticator apps.
	Issuer string `env:"MFA_ISSUER" envDefault:"SkillBridge"`

	// ChallengeTokenTTL bounds the window between login step one and step
	// two, and between setup initiation and setup verification.
	ChallengeTokenTTL time.Duration `env:"MFA_CHALLENGE_TOKEN_TTL" envDefault:"10m"`

	// RecoveryCodeCount is the size of the recovery code batch. Codes are
	// always generated and replaced as a full batch.
	RecoveryCodeCount int `env:"MFA_RECOVERY_CODE_COUNT" envDefault:"10"`

	// TOTPSkew is the number of adjacent 30-second steps accepted on each
	// side of the current one.
	TOTPSkew int `env:"MFA_TOTP_SKEW" envDefault:"1"`

	// QRCodeSize is the enrollment QR image size in pixels.
	QRCodeSize int `env:"MFA_QR_CODE_SIZE" envDefault:"256"`
}
