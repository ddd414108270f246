package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"golang.org/x/exp/mmap"
)

// Errors returned by Open.
var (
	ErrNotFound = errors.New("file not found")
	ErrAccess   = errors.New("file access error")
)

// DefaultMappingThreshold is the file size above which Open maps the file
// instead of reading it into memory.
const DefaultMappingThreshold = 1 << 20

// Source is a byte stream with size and consumption counters.
type Source interface {
	io.Reader
	io.Closer

	// Size returns the total number of bytes, or -1 when unknown.
	Size() int64

	// Consumed returns the number of bytes read so far.
	Consumed() int64
}

// Options controls how Open loads a file.
type Options struct {
	UseMemoryMapping bool
	MappingThreshold int64
}

// DefaultOptions returns mapping enabled with a 1 MiB threshold.
func DefaultOptions() Options {
	return Options{
		UseMemoryMapping: true,
		MappingThreshold: DefaultMappingThreshold,
	}
}

// Stream is the Source implementation returned by every constructor.
type Stream struct {
	r        io.Reader
	closer   io.Closer
	size     int64
	consumed int64
	mapped   bool
	name     string
}

// FromBytes returns a Source over an in-memory slice. The slice is not
// copied and must not be modified while the Source is in use.
func FromBytes(data []byte) *Stream {
	return &Stream{
		r:    bytes.NewReader(data),
		size: int64(len(data)),
	}
}

// FromReader wraps an arbitrary reader. size is the total length if known,
// or -1. If r implements io.Closer, Close closes it.
func FromReader(r io.Reader, size int64) *Stream {
	if size < 0 {
		size = -1
	}
	s := &Stream{r: r, size: size}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Open opens the named file. Files larger than opts.MappingThreshold are
// memory-mapped when opts.UseMemoryMapping is set; all others are read
// fully into memory.
func Open(path string, opts Options) (*Stream, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, openError(path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrAccess, path)
	}

	if opts.UseMemoryMapping && info.Size() > opts.MappingThreshold {
		m, err := mmap.Open(path)
		if err != nil {
			return nil, openError(path, err)
		}
		return &Stream{
			r:      io.NewSectionReader(m, 0, int64(m.Len())),
			closer: m,
			size:   int64(m.Len()),
			mapped: true,
			name:   path,
		}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, openError(path, err)
	}
	s := FromBytes(data)
	s.name = path
	return s, nil
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrAccess, path, err)
}

// Read implements io.Reader and advances the consumed counter.
func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.consumed += int64(n)
	return n, err
}

// Size returns the total size in bytes, or -1 when unknown.
func (s *Stream) Size() int64 {
	return s.size
}

// Consumed returns the number of bytes read so far.
func (s *Stream) Consumed() int64 {
	return s.consumed
}

// Mapped reports whether the file is memory-mapped.
func (s *Stream) Mapped() bool {
	return s.mapped
}

// Name returns the file path for sources created by Open.
func (s *Stream) Name() string {
	return s.name
}

// Close releases the mapping or the wrapped reader.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}
