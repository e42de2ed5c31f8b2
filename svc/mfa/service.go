package mfa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skillbridge/stepup/pkg/challenge"
	"github.com/skillbridge/stepup/pkg/qrcode"
	"github.com/skillbridge/stepup/pkg/recovery"
	"github.com/skillbridge/stepup/pkg/secrets"
	"github.com/skillbridge/stepup/pkg/totp"
)

// Service orchestrates enrollment, step-up login, disable, and recovery
// code regeneration. It is request-scoped and stateless between calls;
// the only shared state is the persisted credential record.
type Service struct {
	cfg      Config
	storage  Storage
	activity ActivityLogger
	cipher   *secrets.Cipher
	tokens   *challenge.Manager
	log      *slog.Logger
}

// NewService derives the cipher from the configured master secret and
// wires the challenge token manager on top of it.
func NewService(cfg Config, storage Storage, activity ActivityLogger, log *slog.Logger) (*Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("%w: storage is required", ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	cipher, err := secrets.New(cfg.MasterSecret)
	if err != nil {
		return nil, err
	}
	if cfg.RecoveryCodeCount <= 0 {
		cfg.RecoveryCodeCount = 10
	}
	if cfg.QRCodeSize <= 0 {
		cfg.QRCodeSize = 256
	}

	return &Service{
		cfg:      cfg,
		storage:  storage,
		activity: activity,
		cipher:   cipher,
		tokens:   challenge.NewManager(cipher, cfg.ChallengeTokenTTL),
		log:      log,
	}, nil
}

// SetupResult is returned from Setup. RecoveryCodes are plaintext and
// shown to the user exactly once; only hashes are persisted.
type SetupResult struct {
	QRCode        string
	RecoveryCodes []string
	SetupToken    string
}

// LoginResult is the outcome of login step one.
type LoginResult struct {
	State                  LoginState
	MFARequired            bool
	MFAToken               string
	RecoveryCodesAvailable int
}

// VerifyResult is the outcome of login step two.
type VerifyResult struct {
	State                  LoginState
	Verified               bool
	RemainingRecoveryCodes int
}

// Status describes the credential for the status query. A user without a
// record reports Enabled=false, SetupRequired=true.
type Status struct {
	Enabled            bool
	SetupRequired      bool
	RecoveryCodesCount int
	SetupDate          *time.Time
	LastUsed           *time.Time
}

// Setup begins enrollment: generates a fresh TOTP secret and recovery
// code batch, persists the credential disabled, and returns the QR image,
// the plaintext codes, and a setup challenge token. An abandoned
// un-enabled setup is overwritten; an enabled credential is not.
func (s *Service) Setup(ctx context.Context, userID, email string) (*SetupResult, error) {
	if userID == "" || email == "" {
		return nil, fmt.Errorf("%w: user id and email are required", ErrValidation)
	}

	existing, err := s.storage.Get(ctx, userID)
	if err != nil && !errors.Is(err, ErrCredentialNotFound) {
		return nil, err
	}
	if existing != nil && existing.Enabled {
		return nil, ErrAlreadyEnabled
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}
	ciphertext, err := s.cipher.EncryptString(secret)
	if err != nil {
		return nil, err
	}

	uri, err := totp.ProvisioningURI(totp.Params{
		Secret:      secret,
		AccountName: email,
		Issuer:      s.cfg.Issuer,
	})
	if err != nil {
		return nil, err
	}
	qr, err := qrcode.GenerateDataURI(uri, s.cfg.QRCodeSize)
	if err != nil {
		return nil, err
	}

	codes, err := recovery.GenerateCodes(s.cfg.RecoveryCodeCount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	hashed := make([]RecoveryCode, len(codes))
	for i, code := range codes {
		hashed[i] = RecoveryCode{Hash: recovery.HashCode(code), CreatedAt: now}
	}

	cred := &Credential{
		UserID:           userID,
		SecretCiphertext: ciphertext,
		Enabled:          false,
		SetupCompleted:   false,
		RecoveryCodes:    hashed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.storage.Upsert(ctx, cred); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, userID, ActivitySetupInitiated, "User initiated MFA setup")

	return &SetupResult{
		QRCode:        qr,
		RecoveryCodes: codes,
		SetupToken:    token,
	}, nil
}

// VerifySetup completes enrollment: it checks the setup challenge token,
// verifies the first TOTP code against the stored secret, and only then
// flips the credential to enabled.
func (s *Service) VerifySetup(ctx context.Context, setupToken, totpCode string) error {
	if setupToken == "" || totpCode == "" {
		return fmt.Errorf("%w: setup token and totp code are required", ErrValidation)
	}

	userID, err := s.tokens.Verify(setupToken)
	if err != nil {
		return errors.Join(ErrInvalidMFAToken, err)
	}

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return ErrSetupNotFound
		}
		return err
	}
	if cred.Enabled {
		return ErrAlreadyEnabled
	}

	ok, err := s.verifyTOTP(cred, totpCode)
	if err != nil {
		return err
	}
	if !ok {
		s.logActivity(ctx, userID, ActivityVerificationFailed, "Failed MFA setup verification attempt")
		return ErrInvalidCode
	}

	now := time.Now().UTC()
	cred.Enabled = true
	cred.SetupCompleted = true
	cred.VerifiedAt = &now
	cred.UpdatedAt = now
	if err := s.storage.Update(ctx, cred); err != nil {
		return err
	}

	s.logActivity(ctx, userID, ActivityEnabled, "MFA successfully enabled for account")
	return nil
}

// BeginLogin runs login step one for an already identity-verified user.
// Without an enabled credential the session is established directly;
// otherwise a challenge token is issued and the login parks in
// MFA_PENDING. The response carries the count of remaining recovery
// codes, never the codes themselves.
func (s *Service) BeginLogin(ctx context.Context, userID string) (*LoginResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	state := StateIdentityVerified

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			state, _ = state.advance(StateSessionEstablished)
			return &LoginResult{State: state}, nil
		}
		return nil, err
	}
	if !cred.Enabled {
		state, _ = state.advance(StateSessionEstablished)
		return &LoginResult{State: state}, nil
	}

	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}

	state, err = state.advance(StateMFAPending)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		State:                  state,
		MFARequired:            true,
		MFAToken:               token,
		RecoveryCodesAvailable: cred.UnusedRecoveryCodes(),
	}, nil
}

// CompleteLogin runs login step two: challenge token first, then the
// declared factor. A wrong TOTP code and a wrong or spent recovery code
// produce the identical ErrInvalidCode, and the login stays in
// MFA_PENDING. On success the credential's LastUsedAt is stamped (and the
// recovery code consumed, if that path was used) before the session is
// established.
func (s *Service) CompleteLogin(ctx context.Context, mfaToken, code string, isRecoveryCode bool) (*VerifyResult, error) {
	if mfaToken == "" || code == "" {
		return nil, fmt.Errorf("%w: mfa token and code are required", ErrValidation)
	}

	userID, err := s.tokens.Verify(mfaToken)
	if err != nil {
		return nil, errors.Join(ErrInvalidMFAToken, err)
	}

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return nil, ErrNotEnabled
		}
		return nil, err
	}
	if !cred.Enabled {
		return nil, ErrNotEnabled
	}

	state := StateMFAPending
	now := time.Now().UTC()
	remaining := cred.UnusedRecoveryCodes()

	if isRecoveryCode {
		hash, found := matchUnusedRecoveryCode(cred, code)
		if !found {
			s.logActivity(ctx, userID, ActivityVerificationFailed, "Failed MFA verification attempt")
			return nil, ErrInvalidCode
		}

		consumed, err := s.storage.ConsumeRecoveryCode(ctx, userID, hash, now)
		if err != nil {
			return nil, err
		}
		if !consumed {
			// Lost the race against a concurrent attempt with the same code.
			s.logActivity(ctx, userID, ActivityVerificationFailed, "Failed MFA verification attempt")
			return nil, ErrInvalidCode
		}
		remaining--
		s.logActivity(ctx, userID, ActivityRecoveryCodeUsed, "Recovery code used for login")
	} else {
		ok, err := s.verifyTOTP(cred, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logActivity(ctx, userID, ActivityVerificationFailed, "Failed MFA verification attempt")
			return nil, ErrInvalidCode
		}
		if err := s.storage.UpdateLastUsed(ctx, userID, now); err != nil {
			return nil, err
		}
	}

	state, err = state.advance(StateMFAVerified)
	if err != nil {
		return nil, err
	}
	state, err = state.advance(StateSessionEstablished)
	if err != nil {
		return nil, err
	}

	s.logActivity(ctx, userID, ActivityVerificationSuccess, "MFA verification successful")

	return &VerifyResult{
		State:                  state,
		Verified:               true,
		RemainingRecoveryCodes: remaining,
	}, nil
}

// Status reports the credential state for the current user. Absence of a
// record means "not enrolled", not an error.
func (s *Service) Status(ctx context.Context, userID string) (*Status, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrValidation)
	}

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return &Status{SetupRequired: true}, nil
		}
		return nil, err
	}

	return &Status{
		Enabled:            cred.Enabled,
		SetupRequired:      !cred.SetupCompleted,
		RecoveryCodesCount: cred.UnusedRecoveryCodes(),
		SetupDate:          cred.VerifiedAt,
		LastUsed:           cred.LastUsedAt,
	}, nil
}

// Disable soft-disables MFA after a fresh factor verification: the enabled
// flag flips and DisabledAt is set, the secret ciphertext is retained. The
// recovery code used as proof is verified but not consumed, since every
// code dies with the disable anyway.
func (s *Service) Disable(ctx context.Context, userID, code string, isRecoveryCode bool) error {
	if userID == "" || code == "" {
		return fmt.Errorf("%w: user id and verification code are required", ErrValidation)
	}

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return ErrNotEnabled
		}
		return err
	}
	if !cred.Enabled {
		return ErrNotEnabled
	}

	var verified bool
	if isRecoveryCode {
		_, verified = matchUnusedRecoveryCode(cred, code)
	} else {
		verified, err = s.verifyTOTP(cred, code)
		if err != nil {
			return err
		}
	}
	if !verified {
		s.logActivity(ctx, userID, ActivityVerificationFailed, "Failed MFA verification attempt")
		return ErrInvalidCode
	}

	now := time.Now().UTC()
	cred.Enabled = false
	cred.DisabledAt = &now
	cred.UpdatedAt = now
	if err := s.storage.Update(ctx, cred); err != nil {
		return err
	}

	s.logActivity(ctx, userID, ActivityDisabled, "MFA disabled for account")
	return nil
}

// RegenerateRecoveryCodes replaces the whole recovery code batch after a
// fresh TOTP verification. Every previously issued code, used or not, is
// invalidated by the replacement.
func (s *Service) RegenerateRecoveryCodes(ctx context.Context, userID, totpCode string) ([]string, error) {
	if userID == "" || totpCode == "" {
		return nil, fmt.Errorf("%w: user id and totp code are required", ErrValidation)
	}

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return nil, ErrNotEnabled
		}
		return nil, err
	}
	if !cred.Enabled {
		return nil, ErrNotEnabled
	}

	ok, err := s.verifyTOTP(cred, totpCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logActivity(ctx, userID, ActivityVerificationFailed, "Failed MFA verification attempt")
		return nil, ErrInvalidCode
	}

	codes, err := recovery.GenerateCodes(s.cfg.RecoveryCodeCount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	hashed := make([]RecoveryCode, len(codes))
	for i, code := range codes {
		hashed[i] = RecoveryCode{Hash: recovery.HashCode(code), CreatedAt: now}
	}

	cred.RecoveryCodes = hashed
	cred.RecoveryCodesRegeneratedAt = &now
	cred.UpdatedAt = now
	if err := s.storage.Update(ctx, cred); err != nil {
		return nil, err
	}

	s.logActivity(ctx, userID, ActivityRecoveryCodesRegenerated, "Recovery codes regenerated")
	return codes, nil
}

// verifyTOTP decrypts the stored secret and checks the submitted code.
// A ciphertext that no longer decrypts is a store-level fault, not a wrong
// code.
func (s *Service) verifyTOTP(cred *Credential, code string) (bool, error) {
	secret, err := s.cipher.DecryptString(cred.SecretCiphertext)
	if err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}

	ok, err := totp.Validate(secret, code, s.cfg.TOTPSkew)
	if err != nil {
		// Malformed input is a wrong code from the caller's perspective.
		return false, nil
	}
	return ok, nil
}

// matchUnusedRecoveryCode scans the unused codes for one matching the
// submitted plaintext and returns its hash.
func matchUnusedRecoveryCode(cred *Credential, code string) (string, bool) {
	for _, rc := range cred.RecoveryCodes {
		if rc.Used {
			continue
		}
		if recovery.VerifyCode(code, rc.Hash) {
			return rc.Hash, true
		}
	}
	return "", false
}

func (s *Service) logActivity(ctx context.Context, userID, activityType, message string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Log(ctx, userID, activityType, message); err != nil {
		s.log.WarnContext(ctx, "failed to log mfa activity",
			slog.String("uid", userID),
			slog.String("type", activityType),
			slog.Any("error", err),
		)
	}
}
