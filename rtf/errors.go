package rtf

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsawler/rtfkit/model"
	"github.com/tsawler/rtfkit/source"
)

// ErrorKind classifies parse errors
type ErrorKind int

const (
	KindUnbalancedGroup ErrorKind = iota + 1
	KindDepthExceeded
	KindTruncatedBinary
	KindMalformedControlWord
	KindInvalidEncoding
	KindUnterminatedDocument
	KindIoError
	KindCanceled
	KindAllocationFailure
	KindInvalidParameter
	KindInvalidFormat
	KindUnsupportedFeature
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnbalancedGroup:
		return "unbalanced group"
	case KindDepthExceeded:
		return "depth exceeded"
	case KindTruncatedBinary:
		return "truncated binary"
	case KindMalformedControlWord:
		return "malformed control word"
	case KindInvalidEncoding:
		return "invalid encoding"
	case KindUnterminatedDocument:
		return "unterminated document"
	case KindIoError:
		return "i/o error"
	case KindCanceled:
		return "canceled"
	case KindAllocationFailure:
		return "allocation failure"
	case KindInvalidParameter:
		return "invalid parameter"
	case KindInvalidFormat:
		return "invalid format"
	case KindUnsupportedFeature:
		return "unsupported feature"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Fatal reports whether errors of this kind stop the parse in tolerant mode.
func (k ErrorKind) Fatal() bool {
	switch k {
	case KindIoError, KindAllocationFailure, KindCanceled, KindInvalidParameter:
		return true
	}
	return false
}

// Sentinel errors, one per kind. A *ParseError matches the sentinel of its
// kind with errors.Is.
var (
	ErrUnbalancedGroup      = &ParseError{Kind: KindUnbalancedGroup}
	ErrDepthExceeded        = &ParseError{Kind: KindDepthExceeded}
	ErrTruncatedBinary      = &ParseError{Kind: KindTruncatedBinary}
	ErrMalformedControlWord = &ParseError{Kind: KindMalformedControlWord}
	ErrInvalidEncoding      = &ParseError{Kind: KindInvalidEncoding}
	ErrUnterminatedDocument = &ParseError{Kind: KindUnterminatedDocument}
	ErrIo                   = &ParseError{Kind: KindIoError}
	ErrCanceled             = &ParseError{Kind: KindCanceled}
	ErrAllocationFailure    = &ParseError{Kind: KindAllocationFailure}
	ErrInvalidParameter     = &ParseError{Kind: KindInvalidParameter}
	ErrInvalidFormat        = &ParseError{Kind: KindInvalidFormat}
	ErrUnsupportedFeature   = &ParseError{Kind: KindUnsupportedFeature}
)

// ParseError is an error found at a byte position of the input
type ParseError struct {
	Kind ErrorKind
	Pos  int64
	Msg  string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	switch {
	case e.Msg != "" && e.Pos >= 0:
		return fmt.Sprintf("rtf: %s at byte %d: %s", e.Kind, e.Pos, e.Msg)
	case e.Msg != "":
		return fmt.Sprintf("rtf: %s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("rtf: %s: %v", e.Kind, e.Err)
	default:
		return "rtf: " + e.Kind.String()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches any *ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func newParseError(kind ErrorKind, pos int64, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Outcome is the overall result of a parse
type Outcome int

const (
	Success Outcome = iota
	SuccessWithRecoveredErrors
	Canceled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SuccessWithRecoveredErrors:
		return "success with recovered errors"
	case Canceled:
		return "canceled"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Code is a numeric result code for callers that need one
type Code int

const (
	CodeOK                 Code = 0
	CodeNoMemory           Code = 1
	CodeInvalidParameter   Code = 2
	CodeParseFailed        Code = 3
	CodeFileNotFound       Code = 4
	CodeFileAccess         Code = 5
	CodeUnsupportedFeature Code = 6
	CodeInvalidFormat      Code = 7
	CodeEncoding           Code = 8
	CodeCanceled           Code = 9
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeNoMemory:
		return "out of memory"
	case CodeInvalidParameter:
		return "invalid parameter"
	case CodeParseFailed:
		return "parse failed"
	case CodeFileNotFound:
		return "file not found"
	case CodeFileAccess:
		return "file access error"
	case CodeUnsupportedFeature:
		return "unsupported feature"
	case CodeInvalidFormat:
		return "invalid format"
	case CodeEncoding:
		return "encoding error"
	case CodeCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// CodeOf maps an error returned by this package to a result code.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	switch {
	case errors.Is(err, source.ErrNotFound):
		return CodeFileNotFound
	case errors.Is(err, source.ErrAccess):
		return CodeFileAccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		return CodeParseFailed
	}
	switch pe.Kind {
	case KindAllocationFailure:
		return CodeNoMemory
	case KindInvalidParameter:
		return CodeInvalidParameter
	case KindCanceled:
		return CodeCanceled
	case KindInvalidEncoding:
		return CodeEncoding
	case KindInvalidFormat:
		return CodeInvalidFormat
	case KindUnsupportedFeature:
		return CodeUnsupportedFeature
	default:
		return CodeParseFailed
	}
}

// Result is the outcome of one parse
type Result struct {
	Outcome  Outcome
	Document *model.Document
	// Errors lists every error found, recovered or not, in input order.
	Errors []*ParseError
	// ParseID identifies the parse in log output.
	ParseID        string
	BytesProcessed int64
	// TotalBytes is the source size, or -1 when unknown.
	TotalBytes int64
}

// OK reports whether the parse produced a complete document.
func (r *Result) OK() bool {
	return r.Outcome == Success || r.Outcome == SuccessWithRecoveredErrors
}
