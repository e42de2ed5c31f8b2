package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody is the standard JSON error envelope: a human-readable message
// plus a stable machine-readable code the frontend switches on.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteJSON writes v as a JSON response with the given status code.
// Encoding failures are unrecoverable at this point (headers are already
// sent), so they are swallowed.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as a JSON error envelope. HTTPError values carry
// their own status and code; anything else becomes an opaque 500 so
// internal failure details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		WriteJSON(w, httpErr.Status, ErrorBody{Error: httpErr.Message, Code: httpErr.Code})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{
		Error: "internal server error",
		Code:  "INTERNAL_ERROR",
	})
}
