// Package identity is the boundary to the external primary-credential
// verifier. The step-up subsystem never checks passwords or OAuth grants
// itself; it hands the opaque identity token to a Verifier and receives a
// stable user id plus profile claims, or a closed failure.
package identity
