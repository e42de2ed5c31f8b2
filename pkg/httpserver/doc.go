// Package httpserver runs an http.Server with context-driven graceful
// shutdown and structured lifecycle logging.
package httpserver
