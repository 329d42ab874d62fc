package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories surfaced to callers.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindValidation    ErrorKind = "validation_error"
	KindConflict      ErrorKind = "conflict"
	KindDataIntegrity ErrorKind = "data_integrity_error"
	KindDependency    ErrorKind = "dependency_error"
)

// Error is the typed error returned by services and repositories.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare kind sentinels below, so errors.Is(err, ErrConflict)
// holds for any *Error of kind conflict.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrDataIntegrity = &Error{Kind: KindDataIntegrity}
	ErrDependency    = &Error{Kind: KindDependency}
)

func NotFoundError(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

func ValidationError(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

func ConflictError(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

func DataIntegrityError(msg string) error { return &Error{Kind: KindDataIntegrity, Message: msg} }

// DependencyError wraps a store, queue or mail provider failure.
func DependencyError(msg string, err error) error {
	return &Error{Kind: KindDependency, Message: msg, Err: err}
}

// KindOf reports the kind of err. Untyped errors count as dependency failures.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindDependency
}

// MessageOf returns the caller-facing message of err without wrapped causes.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
