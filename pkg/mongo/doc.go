// Package mongo provides the document store client used by the credential
// storage adapter: environment-driven configuration, connection with
// bounded retries, and a ping-based healthcheck.
//
// Availability is explicit by construction — New fails when the store is
// unreachable instead of handing out a client that silently degrades.
package mongo
