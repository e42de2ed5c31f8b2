// Package throttle provides a small in-memory token bucket limiter for
// guarding endpoints that verify guessable credentials, such as one-time
// codes. Each caller key gets a fixed-capacity bucket that refills one
// token per interval; idle buckets are swept to bound memory.
package throttle
