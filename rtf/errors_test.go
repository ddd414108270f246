package rtf

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/rtfkit/source"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnbalancedGroup, "unbalanced group"},
		{KindDepthExceeded, "depth exceeded"},
		{KindTruncatedBinary, "truncated binary"},
		{KindMalformedControlWord, "malformed control word"},
		{KindInvalidEncoding, "invalid encoding"},
		{KindUnterminatedDocument, "unterminated document"},
		{KindIoError, "i/o error"},
		{KindCanceled, "canceled"},
		{KindAllocationFailure, "allocation failure"},
		{KindInvalidParameter, "invalid parameter"},
		{ErrorKind(0), "ErrorKind(0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestErrorKindFatal(t *testing.T) {
	fatal := map[ErrorKind]bool{
		KindIoError:           true,
		KindAllocationFailure: true,
		KindCanceled:          true,
		KindInvalidParameter:  true,
	}
	for k := KindUnbalancedGroup; k <= KindUnsupportedFeature; k++ {
		assert.Equal(t, fatal[k], k.Fatal(), k.String())
	}
}

func TestParseErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{"with position", newParseError(KindUnbalancedGroup, 12, "unmatched closing brace"), "rtf: unbalanced group at byte 12: unmatched closing brace"},
		{"no position", newParseError(KindInvalidParameter, -1, "nil source"), "rtf: invalid parameter: nil source"},
		{"cause only", &ParseError{Kind: KindIoError, Pos: -1, Err: errors.New("disk")}, "rtf: i/o error: disk"},
		{"bare", &ParseError{Kind: KindCanceled}, "rtf: canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParseErrorIs(t *testing.T) {
	cause := errors.New("cause")
	err := &ParseError{Kind: KindIoError, Pos: 3, Err: cause}
	wrapped := fmt.Errorf("reading: %w", err)

	assert.True(t, errors.Is(wrapped, ErrIo))
	assert.True(t, errors.Is(wrapped, cause))
	assert.False(t, errors.Is(wrapped, ErrCanceled))

	var pe *ParseError
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, int64(3), pe.Pos)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeOK},
		{"not found", fmt.Errorf("%w: x.rtf", source.ErrNotFound), CodeFileNotFound},
		{"access", fmt.Errorf("%w: x.rtf", source.ErrAccess), CodeFileAccess},
		{"context", context.DeadlineExceeded, CodeCanceled},
		{"allocation", ErrAllocationFailure, CodeNoMemory},
		{"parameter", ErrInvalidParameter, CodeInvalidParameter},
		{"encoding", ErrInvalidEncoding, CodeEncoding},
		{"format", ErrInvalidFormat, CodeInvalidFormat},
		{"unsupported", ErrUnsupportedFeature, CodeUnsupportedFeature},
		{"unbalanced", ErrUnbalancedGroup, CodeParseFailed},
		{"foreign", errors.New("other"), CodeParseFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
	assert.Equal(t, "file not found", CodeFileNotFound.String())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "success with recovered errors", SuccessWithRecoveredErrors.String())
	assert.Equal(t, "canceled", Canceled.String())
	assert.Equal(t, "failed", Failed.String())
}

func TestOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.False(t, opts.StrictMode)
	assert.Equal(t, uint16(100), opts.MaxDepth)
	assert.True(t, opts.UseMemoryMapping)
	assert.Equal(t, uint32(1<<20), opts.MemoryMappingThreshold)
	assert.Equal(t, uint32(64<<10), opts.ProgressInterval)
	assert.True(t, opts.ExtractMetadata)
	assert.True(t, opts.DetectDocumentType)
	assert.True(t, opts.AutoFixErrors)
	require.NoError(t, opts.Validate())

	strict := StrictOptions()
	assert.True(t, strict.StrictMode)
	assert.False(t, strict.AutoFixErrors)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ParseOptions)
	}{
		{"zero depth", func(o *ParseOptions) { o.MaxDepth = 0 }},
		{"zero binary size", func(o *ParseOptions) { o.MaxBinarySize = 0 }},
		{"negative binary size", func(o *ParseOptions) { o.MaxBinarySize = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			err := opts.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)

			_, err = NewParser(opts)
			assert.ErrorIs(t, err, ErrInvalidParameter)

			res, err := ParseBytes(context.Background(), []byte(`{\rtf1}`), opts)
			assert.Nil(t, res)
			assert.Equal(t, CodeInvalidParameter, CodeOf(err))
		})
	}
}

func TestParserOptionsCopied(t *testing.T) {
	opts := DefaultOptions()
	p, err := NewParser(opts)
	require.NoError(t, err)

	opts.StrictMode = true
	assert.False(t, p.Options().StrictMode)
}
