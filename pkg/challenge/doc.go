// Package challenge implements the stateless tokens bridging the two-step
// login exchange: step one proves the primary identity and receives a
// token, step two presents the token together with a second factor.
//
// A token is the encrypted JSON payload {uid, iat, nonce}; its entire
// state lives in the token bytes, so no server-side storage or cleanup is
// required. Validity is purely time-bounded. The flip side is that a
// still-valid captured token can be replayed until it expires — a
// deliberate tradeoff. Deployments that need strict single-use semantics
// must bind the embedded nonce to a short-TTL server-side cache before
// accepting a token; this package does not maintain such a cache.
package challenge
