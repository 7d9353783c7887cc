package qtd

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECANCELED  = "canceled"
	EBACKEND   = "backend"
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENOTFOUND  = "not_found"
	ETIMEOUT   = "timeout"
	ETRANSPORT = "transport"
)

// Error represents an application-specific error. Code is machine-readable and
// Message is safe to show to the user.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("qtd error: code=%s message=%s", e.Code, e.Message)
}

// Retryable reports whether submitting the same request again may succeed.
func (e *Error) Retryable() bool {
	switch e.Code {
	case ETRANSPORT, ETIMEOUT, ECANCELED:
		return true
	}
	return false
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
