// Package apperr defines the domain error taxonomy shared by the service
// layer and the HTTP boundary. Four kinds exist: validation (bad input,
// client-recoverable), authentication (deliberately generic), authorization
// (role check failed, details may be disclosed), and not found. Anything
// else is treated as an infrastructure failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind sentinels, usable with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrAuthorization  = errors.New("authorization error")
	ErrNotFound       = errors.New("not found")
)

// Error is a domain error carrying its kind and a client-facing message.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error against its kind sentinel.
func (e *Error) Is(target error) bool { return target == e.Kind }

func Validation(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Authentication(message string) *Error {
	return &Error{Kind: ErrAuthentication, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: ErrAuthorization, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// Message returns the client-facing message for a domain error, or a generic
// one for infrastructure failures so internals never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// HTTPStatus maps an error to the transport status the routing layer writes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
