// Package apperr defines the error kinds shared by services, guards and
// handlers. Services return *Error values carrying a kind and a user-facing
// message; callers classify them with errors.Is against the sentinels.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrItemUnavailable    = errors.New("item unavailable")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidStatusValue = errors.New("invalid status value")
	ErrPersistence        = errors.New("persistence error")
	ErrValidation         = errors.New("validation failed")
)

// kinds is ordered; the first match wins.
var kinds = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrConflict, http.StatusConflict},
	{ErrItemUnavailable, http.StatusUnprocessableEntity},
	{ErrInvalidTransition, http.StatusConflict},
	{ErrInvalidStatusValue, http.StatusBadRequest},
	{ErrValidation, http.StatusBadRequest},
	{ErrPersistence, http.StatusInternalServerError},
}

const genericMessage = "Something went wrong, please try again"

type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func New(kind error, msg string) error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind error, format string, args ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage failure. Errors that already carry a kind are
// returned unchanged, so a transaction rolled back by a domain error keeps it.
func Persistence(err error, msg string) error {
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	return &Error{kind: ErrPersistence, msg: msg, cause: err}
}

// Kind returns the sentinel err carries, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err
		}
	}
	return nil
}

// HTTPStatus maps err to a response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Message is the text shown to the end user. Storage details never leak.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || errors.Is(err, ErrPersistence) {
		return genericMessage
	}
	return e.msg
}
