package core

import "github.com/pkg/errors"

// Kind tags an application error with the business failure it represents.
// The API boundary translates kinds to HTTP statuses via a dispatch table;
// services never deal in status codes.
type Kind int

const (
	KindApp Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Kind() Kind { return e.kind }

func NewAppError(msg string) error { return &Error{KindApp, msg} }
func Unauthorized(msg string) error { return &Error{KindUnauthorized, msg} }
func Forbidden(msg string) error { return &Error{KindForbidden, msg} }
func NotFound(msg string) error { return &Error{KindNotFound, msg} }
func Conflict(msg string) error { return &Error{KindConflict, msg} }

// KindOf unwraps err and reports its kind. ok is false for errors that did
// not originate from this package (server errors at the boundary).
func KindOf(err error) (Kind, bool) {
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.kind, true
	}
	return KindApp, false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

type shutdown struct {
	message string
}

// NewShutdownError returns an error that signals the server to stop;
// used for integrity issues that cannot be recovered per-request.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
