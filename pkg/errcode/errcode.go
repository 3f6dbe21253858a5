package errcode

import (
	"errors"
	"fmt"
)

// Kind classifies core errors so the presentation layer can translate them
// to transport codes. The core itself never encodes transport concerns.
type Kind int

const (
	// KindUnknown ...
	KindUnknown Kind = iota

	// KindNotFound a referenced entity id does not resolve
	KindNotFound

	// KindConflict a uniqueness invariant was violated
	KindConflict

	// KindFailedPrecondition the operation is blocked by entity state
	KindFailedPrecondition

	// KindInvalidArgument the input is malformed
	KindInvalidArgument
)

// Error ...
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind ...
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf returns the Kind of err, or KindUnknown for errors outside the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// NotFoundf ...
func NotFoundf(format string, args ...interface{}) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf ...
func Conflictf(format string, args ...interface{}) error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// FailedPreconditionf ...
func FailedPreconditionf(format string, args ...interface{}) error {
	return &Error{kind: KindFailedPrecondition, msg: fmt.Sprintf(format, args...)}
}

// InvalidArgumentf ...
func InvalidArgumentf(format string, args ...interface{}) error {
	return &Error{kind: KindInvalidArgument, msg: fmt.Sprintf(format, args...)}
}
