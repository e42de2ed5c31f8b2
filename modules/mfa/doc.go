// Package mfa exposes the step-up authentication HTTP surface: the
// two-step login exchange under /auth and the enrollment, status,
// disable, and recovery code management endpoints under /mfa. Request and
// response bodies use snake_case JSON matching the frontend contract.
package mfa
