// Package totp implements Time-based One-Time Passwords per RFC 6238,
// including secret key generation, otpauth:// provisioning URI
// construction for authenticator apps, and code validation with a
// configurable clock-skew window.
//
// Validation accepts the code for the current 30-second step plus the
// adjacent ±skew steps and compares candidates in constant time. The
// package holds no state; callers are responsible for persisting secrets
// (encrypted) and for rate limiting verification attempts at the protocol
// layer.
//
// See RFC 4226 (HOTP) and RFC 6238 (TOTP) for the underlying algorithms.
package totp
