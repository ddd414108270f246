package rtf

import (
	"io"
	"log/slog"
)

// ParseOptions configures a parse. It is a plain value: copy it, change
// fields, and pass it to NewParser.
type ParseOptions struct {
	// StrictMode aborts on the first error instead of recovering.
	StrictMode bool
	// MaxDepth is the deepest group nesting accepted.
	MaxDepth uint16

	// UseMemoryMapping maps files larger than MemoryMappingThreshold bytes
	// in ParseFile.
	UseMemoryMapping       bool
	MemoryMappingThreshold uint32

	// ProgressInterval is the number of bytes between progress reports.
	// Zero disables progress reporting.
	ProgressInterval uint32

	ExtractMetadata    bool
	DetectDocumentType bool
	// AutoFixErrors ends the document at a stray closing brace after the
	// document group and closes open groups at end of input.
	AutoFixErrors bool
	// KeepPartialOnCancel returns the document built so far when a parse
	// is canceled.
	KeepPartialOnCancel bool

	// MaxBinarySize bounds \bin payloads and decoded picture data.
	MaxBinarySize int64
}

// Default limits.
const (
	DefaultMaxDepth               = 100
	DefaultMemoryMappingThreshold = 1 << 20
	DefaultProgressInterval       = 64 << 10
	DefaultMaxBinarySize          = 64 << 20
)

// DefaultOptions returns tolerant options with every extraction feature
// enabled.
func DefaultOptions() ParseOptions {
	return ParseOptions{
		StrictMode:             false,
		MaxDepth:               DefaultMaxDepth,
		UseMemoryMapping:       true,
		MemoryMappingThreshold: DefaultMemoryMappingThreshold,
		ProgressInterval:       DefaultProgressInterval,
		ExtractMetadata:        true,
		DetectDocumentType:     true,
		AutoFixErrors:          true,
		KeepPartialOnCancel:    true,
		MaxBinarySize:          DefaultMaxBinarySize,
	}
}

// StrictOptions returns DefaultOptions with strict mode on and automatic
// fixes off.
func StrictOptions() ParseOptions {
	opts := DefaultOptions()
	opts.StrictMode = true
	opts.AutoFixErrors = false
	return opts
}

// Validate checks option values.
func (o ParseOptions) Validate() error {
	if o.MaxDepth == 0 {
		return newParseError(KindInvalidParameter, -1, "MaxDepth must be at least 1")
	}
	if o.MaxBinarySize <= 0 {
		return newParseError(KindInvalidParameter, -1, "MaxBinarySize must be positive, got %d", o.MaxBinarySize)
	}
	return nil
}

// Progress describes how far a parse has got.
type Progress struct {
	// Fraction is in [0, 1). It is exactly 1 only in the final report of a
	// completed parse, and 0 when the total size is unknown.
	Fraction  float64
	Processed int64
	Total     int64
}

// ProgressFunc receives progress reports.
type ProgressFunc func(Progress)

// CancelFunc is polled before each token; returning true cancels the parse.
type CancelFunc func() bool

// Option configures the hooks of a Parser.
type Option func(*Parser)

// WithHandler delivers parse events to h in document order.
func WithHandler(h Handler) Option {
	return func(p *Parser) {
		p.handler = h
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Parser) {
		p.progress = fn
	}
}

// WithCancel registers a cancellation check in addition to the context.
func WithCancel(fn CancelFunc) Option {
	return func(p *Parser) {
		p.cancel = fn
	}
}

// WithLogger sets the structured logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
