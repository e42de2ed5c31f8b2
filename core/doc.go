// Package core holds the HTTP response plumbing shared by feature
// routers: the JSON envelope writer and the typed HTTP error carrying a
// status plus a stable error code.
package core
