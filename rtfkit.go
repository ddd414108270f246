// Package rtfkit provides a fluent API for extracting text, tables, and other
// content from RTF files.
//
// Basic usage:
//
//	text, warnings, err := rtfkit.Open("document.rtf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", rtfkit.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := rtfkit.Open("report.rtf").
//	    Strict().
//	    NoMetadata().
//	    Markdown()
//
// For advanced use cases, the lower-level rtf package is also available.
package rtfkit

import (
	"io"
)

// Open returns an Extractor for the named RTF file. The file is read when
// a terminal operation like Text() runs, memory-mapped when it is large.
//
// Example:
//
//	text, warnings, err := rtfkit.Open("document.rtf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor for an in-memory document.
//
// Example:
//
//	text, _, err := rtfkit.FromBytes(data).Text()
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:      data,
		fromBytes: true,
		options:   defaultOptions(),
	}
}

// FromReader returns an Extractor that reads its document from r. The
// reader is drained on the first terminal operation and the bytes are
// shared by every Extractor derived from this one.
// Note: The caller is responsible for closing the reader.
//
// Example:
//
//	f, err := os.Open("document.rtf")
//	if err != nil {
//	    // handle error
//	}
//	defer f.Close()
//	text, warnings, err := rtfkit.FromReader(f).Text()
func FromReader(r io.Reader) *Extractor {
	return &Extractor{
		reader:  &readerSource{r: r},
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	opts := rtfkit.Must(config.Load("rtfkit.yaml"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to a terminal operation and panics
// if the error is non-nil. It discards warnings and returns just the value.
// It is intended for use in scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	text := rtfkit.MustText(rtfkit.Open("document.rtf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
