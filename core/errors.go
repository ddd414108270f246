package core

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by *Error.
var (
	ErrMalformedControlWord = errors.New("malformed control word")
	ErrTruncatedBinary      = errors.New("truncated binary data")
	ErrInvalidEncoding      = errors.New("invalid encoding")
	ErrBinaryTooLarge       = errors.New("binary data exceeds limit")
	ErrRead                 = errors.New("source read failed")
)

// Error is a lexical error at a byte position.
type Error struct {
	Err error // one of the sentinel causes
	Pos int64
	Msg string
	// Cause is the underlying I/O error for ErrRead.
	Cause error
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%v at position %d", e.Err, e.Pos)
	}
	return fmt.Sprintf("%v at position %d: %s", e.Err, e.Pos, e.Msg)
}

// Unwrap returns both the sentinel and the I/O cause so errors.Is matches
// either.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func newError(sentinel error, pos int64, format string, args ...any) *Error {
	return &Error{Err: sentinel, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
