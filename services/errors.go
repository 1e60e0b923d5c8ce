package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map it to a status code
type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindReference     Kind = "reference_error"
	KindAuthorization Kind = "authorization_error"
	KindNotFound      Kind = "not_found"
	KindTransaction   Kind = "transaction_failure"
	KindInternal      Kind = "internal_error"
)

// Sentinels to match a kind with errors.Is
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrReference     = &Error{Kind: KindReference}
	ErrAuthorization = &Error{Kind: KindAuthorization}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrTransaction   = &Error{Kind: KindTransaction}
	ErrInternal      = &Error{Kind: KindInternal}
)

// Error is the structured failure returned by every service operation
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not a service error
func KindOf(err error) Kind {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	return KindInternal
}

// MessageOf returns the human readable message of err
func MessageOf(err error) string {
	var serviceErr *Error
	if errors.As(err, &serviceErr) && serviceErr.Message != "" {
		return serviceErr.Message
	}
	return "internal error"
}
