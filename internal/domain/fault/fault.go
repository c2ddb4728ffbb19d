package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so transport code can pick a status without
// matching on message text.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindBusinessRule  Kind = "business_rule"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindAuthorization Kind = "authorization"
	KindInternal      Kind = "internal"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps err as the cause while presenting kind/code/message to callers.
func Wrap(err error, kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, cause: err}
}

func Validation(code, format string, args ...any) *Error {
	return New(KindValidation, code, format, args...)
}

func BusinessRule(code, format string, args ...any) *Error {
	return New(KindBusinessRule, code, format, args...)
}

func NotFound(code, format string, args ...any) *Error {
	return New(KindNotFound, code, format, args...)
}

func Conflict(code, format string, args ...any) *Error {
	return New(KindConflict, code, format, args...)
}

func Authorization(code, format string, args ...any) *Error {
	return New(KindAuthorization, code, format, args...)
}

// Internal wraps an unexpected failure. The message stays generic; the
// cause is kept for logs only.
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: message, cause: err}
}

// KindOf returns the classification of err, or KindInternal for errors
// produced outside this package.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return "internal_error"
}

func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "internal error"
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
