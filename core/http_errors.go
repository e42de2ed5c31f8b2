package core

// HTTPError represents an HTTP error with a status code, a stable
// machine-readable code, and a client-safe message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTP error with the given status, code, and message.
func NewHTTPError(status int, code, message string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: message}
}
