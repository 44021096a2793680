package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInvalidState
)

// Error is an application error with an HTTP-mappable kind and
// optional field-keyed detail messages
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a 400-class error keyed on a single field
func Validation(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// ValidationMsg returns a 400-class error without a field key
func ValidationMsg(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Authentication returns a 401-class error
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization returns a 403-class error
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound returns a 404-class error for a missing resource
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// NotFoundField returns a 404-class error keyed on a field
func NotFoundField(field, message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// Conflict returns a 409-class error
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// InvalidState returns a 409-class error for an illegal state transition
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// Internal wraps an unexpected error
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// From extracts an *Error from err, wrapping unknown errors as internal
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Status maps an error to its HTTP status code
func Status(err error) int {
	switch From(err).Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
