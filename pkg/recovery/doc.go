// Package recovery generates and verifies single-use backup codes that
// substitute for the TOTP device when it is lost.
//
// Codes are short human-transcribable strings (XXXX-XXXX), hashed for
// storage with the same slow KDF used for the secret cipher key but under
// a distinct salt. Verification is constant-time. Consumption semantics
// (marking a code used) live with the credential record, not here.
package recovery
