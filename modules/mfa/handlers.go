package mfa

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/skillbridge/stepup/core"
	"github.com/skillbridge/stepup/pkg/identity"
	mfasvc "github.com/skillbridge/stepup/svc/mfa"
)

const sessionTypeExplicitLogin = "explicit_login"

type loginRequest struct {
	IDToken     string `json:"id_token"`
	SessionType string `json:"session_type"`
	SkipMFA     bool   `json:"skip_mfa"`
}

type loginResponse struct {
	Message                string `json:"message"`
	MFARequired            bool   `json:"mfa_required"`
	MFAToken               string `json:"mfa_token,omitempty"`
	RecoveryCodesAvailable int    `json:"recovery_codes_available,omitempty"`
}

// handleLogin is login step one. The primary credential is verified by the
// external identity provider; this endpoint only decides whether a second
// factor stands between the verified identity and an established session.
func (m *Module) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "missing required field: id_token"))
		return
	}
	if req.SessionType == "" {
		req.SessionType = sessionTypeExplicitLogin
	}

	claims, err := m.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		core.WriteError(w, core.NewHTTPError(http.StatusUnauthorized, "AUTH_TOKEN_INVALID", "invalid or expired identity token"))
		return
	}

	// Session restores and redirect completions re-enter an existing
	// session; only an explicit login triggers the step-up challenge.
	if req.SkipMFA || req.SessionType != sessionTypeExplicitLogin {
		core.WriteJSON(w, http.StatusOK, loginResponse{Message: "Login successful"})
		return
	}

	result, err := m.svc.BeginLogin(r.Context(), claims.UserID)
	if err != nil {
		m.writeServiceError(w, r, err)
		return
	}

	if !result.MFARequired {
		core.WriteJSON(w, http.StatusOK, loginResponse{Message: "Login successful"})
		return
	}

	core.WriteJSON(w, http.StatusOK, loginResponse{
		Message:                "MFA verification required",
		MFARequired:            true,
		MFAToken:               result.MFAToken,
		RecoveryCodesAvailable: result.RecoveryCodesAvailable,
	})
}

type verifyRequest struct {
	MFAToken       string `json:"mfa_token"`
	Code           string `json:"code"`
	IsRecoveryCode bool   `json:"is_recovery_code"`
}

type verifyResponse struct {
	Message                string `json:"message"`
	Verified               bool   `json:"verified"`
	RemainingRecoveryCodes int    `json:"remaining_recovery_codes"`
}

// handleVerify is login step two: challenge token plus TOTP or recovery code.
func (m *Module) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MFAToken == "" || req.Code == "" {
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "missing required fields: mfa_token and code"))
		return
	}

	result, err := m.svc.CompleteLogin(r.Context(), req.MFAToken, req.Code, req.IsRecoveryCode)
	if err != nil {
		m.writeServiceError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, verifyResponse{
		Message:                "MFA verification successful",
		Verified:               result.Verified,
		RemainingRecoveryCodes: result.RemainingRecoveryCodes,
	})
}

type setupResponse struct {
	Message       string   `json:"message"`
	QRCode        string   `json:"qr_code"`
	RecoveryCodes []string `json:"recovery_codes"`
	SetupToken    string   `json:"setup_token"`
}

func (m *Module) handleSetup(w http.ResponseWriter, r *http.Request) {
	claims := identity.GetClaimsFromContext(r.Context())

	result, err := m.svc.Setup(r.Context(), claims.UserID, claims.Email)
	if err != nil {
		m.writeServiceError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, setupResponse{
		Message:       "MFA setup initiated successfully",
		QRCode:        result.QRCode,
		RecoveryCodes: result.RecoveryCodes,
		SetupToken:    result.SetupToken,
	})
}

type verifySetupRequest struct {
	SetupToken string `json:"setup_token"`
	TOTPCode   string `json:"totp_code"`
}

func (m *Module) handleVerifySetup(w http.ResponseWriter, r *http.Request) {
	var req verifySetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SetupToken == "" || req.TOTPCode == "" {
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "missing required fields: setup_token and totp_code"))
		return
	}

	if err := m.svc.VerifySetup(r.Context(), req.SetupToken, req.TOTPCode); err != nil {
		m.writeServiceError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "MFA enabled successfully",
		"enabled": true,
	})
}

type statusResponse struct {
	Enabled            bool   `json:"enabled"`
	SetupRequired      bool   `json:"setup_required"`
	RecoveryCodesCount int    `json:"recovery_codes_count"`
	SetupDate          string `json:"setup_date,omitempty"`
	LastUsed           string `json:"last_used,omitempty"`
}

func (m *Module) handleStatus(w http.ResponseWriter, r *http.Request) {
	claims := identity.GetClaimsFromContext(r.Context())

	status, err := m.svc.Status(r.Context(), claims.UserID)
	if err != nil {
		m.writeServiceError(w, r, err)
		return
	}

	resp := statusResponse{
		Enabled:            status.Enabled,
		SetupRequired:      status.SetupRequired,
		RecoveryCodesCount: status.RecoveryCodesCount,
	}
	if status.SetupDate != nil {
		resp.SetupDate = status.SetupDate.UTC().Format(time.RFC3339)
	}
	if status.LastUsed != nil {
		resp.LastUsed = status.LastUsed.UTC().Format(time.RFC3339)
	}

	core.WriteJSON(w, http.StatusOK, resp)
}

type disableRequest struct {
	VerificationCode string `json:"verification_code"`
	IsRecoveryCode   bool   `json:"is_recovery_code"`
}

func (m *Module) handleDisable(w http.ResponseWriter, r *http.Request) {
	claims := identity.GetClaimsFromContext(r.Context())

	var req disableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VerificationCode == "" {
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "verification code is required to disable MFA"))
		return
	}

	if err := m.svc.Disable(r.Context(), claims.UserID, req.VerificationCode, req.IsRecoveryCode); err != nil {
		m.writeServiceError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "MFA disabled successfully",
		"enabled": false,
	})
}

type regenerateRequest struct {
	TOTPCode string `json:"totp_code"`
}

func (m *Module) handleRegenerateCodes(w http.ResponseWriter, r *http.Request) {
	claims := identity.GetClaimsFromContext(r.Context())

	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TOTPCode == "" {
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", "totp code is required"))
		return
	}

	codes, err := m.svc.RegenerateRecoveryCodes(r.Context(), claims.UserID, req.TOTPCode)
	if err != nil {
		m.writeServiceError(w, r, err)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"message":        "Recovery codes regenerated successfully",
		"recovery_codes": codes,
	})
}

// writeServiceError maps service sentinels onto the wire error taxonomy.
// Wrong TOTP codes and wrong recovery codes share one code so the
// response does not reveal which factor type failed.
func (m *Module) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mfasvc.ErrValidation):
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error()))
	case errors.Is(err, mfasvc.ErrInvalidMFAToken):
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "INVALID_MFA_TOKEN", "invalid or expired MFA token"))
	case errors.Is(err, mfasvc.ErrInvalidCode):
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "INVALID_VERIFICATION_CODE", "invalid verification code"))
	case errors.Is(err, mfasvc.ErrAlreadyEnabled):
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "MFA_ALREADY_ENABLED", "MFA is already enabled for this account"))
	case errors.Is(err, mfasvc.ErrNotEnabled):
		core.WriteError(w, core.NewHTTPError(http.StatusBadRequest, "MFA_NOT_ENABLED", "MFA is not enabled for this account"))
	case errors.Is(err, mfasvc.ErrSetupNotFound):
		core.WriteError(w, core.NewHTTPError(http.StatusNotFound, "MFA_SETUP_NOT_FOUND", "MFA setup not found"))
	default:
		m.log.ErrorContext(r.Context(), "mfa operation failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		core.WriteError(w, err)
	}
}
