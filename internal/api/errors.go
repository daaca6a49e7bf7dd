package api

import "errors"

// Error codes the console distinguishes. Anything else is an upstream code
// passed through untouched.
const (
	CodeRequestTimeout = "REQUEST_TIMEOUT"
	CodeAuthRequired   = "AUTH_REQUIRED"
	CodeAuthInvalid    = "AUTH_INVALID"
	CodeAuthError      = "AUTH_ERROR"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternal       = "INTERNAL_ERROR"
)

// Error is the single failure shape every remote problem is normalized
// into before it reaches a call site.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// NewError builds a coded error.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// AsError normalizes any error into the coded shape. Unknown errors become
// INTERNAL_ERROR carrying the original message.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	return &Error{Code: CodeInternal, Message: err.Error()}
}
