// Package source provides the byte sources the RTF parser reads from.
//
// A Source is an io.Reader that also knows its total size (when available)
// and how many bytes have been pulled through it. The parser uses these two
// counters for progress reporting and for the BytesProcessed field of a
// parse result.
//
// Three constructors cover the common cases:
//
//	src := source.FromBytes(data)              // in-memory slice
//	src := source.FromReader(r, -1)            // pull reader, size unknown
//	src, err := source.Open(path, source.DefaultOptions())
//
// Open memory-maps large files and buffers small ones in memory. The choice
// is reported by Mapped. A Source must be closed when done.
package source
