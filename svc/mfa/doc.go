// Package mfa implements the multi-factor authentication step-up
// subsystem: TOTP enrollment with QR provisioning and single-use recovery
// codes, the two-step login exchange bridged by short-lived challenge
// tokens, proof-of-possession gated disable and recovery code
// regeneration, and the credential storage adapter for the document
// store.
//
// The service never establishes transport-level sessions itself; it
// reports login state (see LoginState) and leaves session issuance to the
// caller. Primary credential verification is likewise external — every
// operation receives an already-verified user id.
//
// Security properties enforced here: the TOTP secret is persisted only
// encrypted, recovery codes are persisted only as slow-KDF digests and
// consumed at most once (a conditional store update guards against
// concurrent double-spend), challenge tokens are time-bounded, and no
// state transition reaches an enabled or disabled credential without a
// successful factor verification first.
package mfa
