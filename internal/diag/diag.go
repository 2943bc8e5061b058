// Package diag formats failure descriptions that pair a message with an error
// code, defaulting to the platform's last error when no code is supplied.
package diag

import (
	"fmt"
	"syscall"
)

// LastError reports the calling thread's most recent platform error code.
// Tests replace it to pin the code.
var LastError = lastError

// Error is a message plus the code it was raised with.
type Error struct {
	Msg  string
	Code int

	// User is set when Code was supplied by the caller rather than taken from
	// the platform.
	User bool
}

// New builds an Error carrying the platform's last error code.
func New(msg string) *Error {
	return &Error{Msg: msg, Code: LastError()}
}

// System builds an Error with a platform code the caller already captured,
// such as the errno returned alongside a native call.
func System(msg string, code int) *Error {
	return &Error{Msg: msg, Code: code}
}

// FromErr is System with the code extracted from err. Errors that do not carry
// an errno fall back to LastError.
func FromErr(msg string, err error) *Error {
	if errno, ok := err.(syscall.Errno); ok && errno != 0 {
		return System(msg, int(errno))
	}
	return New(msg)
}

// WithCode builds an Error carrying a caller-chosen code.
func WithCode(msg string, code int) *Error {
	return &Error{Msg: msg, Code: code, User: true}
}

func (e *Error) Error() string {
	if e.User {
		return fmt.Sprintf("%s User error code: %d", e.Msg, e.Code)
	}
	return fmt.Sprintf("%s System error code: %d", e.Msg, e.Code)
}

func (e *Error) String() string {
	return e.Error()
}

// Unwrap exposes platform codes as a syscall.Errno so callers can match them
// with errors.Is. User codes and a zero code unwrap to nothing.
func (e *Error) Unwrap() error {
	if e.User || e.Code == 0 {
		return nil
	}
	return syscall.Errno(e.Code)
}
