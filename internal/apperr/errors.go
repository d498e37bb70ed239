package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the handler boundary.
type Kind int

const (
	KindNotFound Kind = iota
	KindValidation
	KindAuth
	KindInternal
)

// Error carries a client-safe message and a kind that maps to an HTTP status.
type Error struct {
	Kind    Kind
	Message string
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

// NotFound reports a missing entity.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Validation reports a constraint or input violation.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Auth reports failed authentication. The message stays generic so the
// response never reveals which part of the credentials was wrong.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Wrap marks err as internal while keeping it in the chain for logging.
func Wrap(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindNotFound:
			return http.StatusNotFound
		case KindValidation:
			return http.StatusBadRequest
		case KindAuth:
			return http.StatusUnauthorized
		}
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err. Internal errors are
// collapsed to a stable string so storage-engine text never leaks out.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
