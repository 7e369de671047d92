// Package sample captures the bounded byte window the sniffer classifies.
package sample

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"

	"github.com/vertti/fqsniff/internal/format"
)

// DefaultSize is the number of bytes read after the leading byte.
// It is also the upper bound: a window never exceeds DefaultSize+1 bytes.
const DefaultSize = 1_000_000

// ErrStdinGzip is returned when gzip data would have to be read from
// standard input. The stream cannot be rewound for the magic-byte reopen.
var ErrStdinGzip = fmt.Errorf("%w: can't read gzip from stdin", format.ErrCannotSniff)

// Options configures sample acquisition.
type Options struct {
	Compression format.Compression // auto, none or gzip
	Size        int                // bytes after the leading byte (default and max: DefaultSize)
	Logger      logrus.FieldLogger
}

// Sample is the leading byte plus the bytes that follow it.
type Sample struct {
	Data        []byte
	Compression format.Compression
}

// First returns the leading byte and whether the sample has one.
func (s *Sample) First() (byte, bool) {
	if len(s.Data) == 0 {
		return 0, false
	}
	return s.Data[0], true
}

// Body returns everything after the leading byte.
func (s *Sample) Body() []byte {
	if len(s.Data) == 0 {
		return nil
	}
	return s.Data[1:]
}

// IsStdin reports whether path names standard input.
func IsStdin(path string) bool {
	return path == "" || path == "-"
}

// Acquire reads the sample window from path, or from standard input when
// path is empty or "-". With automatic compression, a leading gzip magic
// byte reopens the path through a gzip reader.
func Acquire(path string, opts Options) (*Sample, error) {
	opts = opts.withDefaults()

	if IsStdin(path) {
		if opts.Compression == format.CompressionGzip {
			return nil, ErrStdinGzip
		}
		s, err := read(os.Stdin, opts.Size, format.CompressionNone)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if first, ok := s.First(); ok && first == format.GzipMagic && opts.Compression == format.CompressionAuto {
			return nil, ErrStdinGzip
		}
		return s, nil
	}

	s, err := acquireFile(path, opts.Size, opts.Compression)
	if err != nil {
		return nil, err
	}
	if first, ok := s.First(); ok && first == format.GzipMagic && opts.Compression == format.CompressionAuto {
		opts.Logger.WithField("path", path).Debug("gzip magic byte found, reopening as gzip")
		return acquireFile(path, opts.Size, format.CompressionGzip)
	}
	return s, nil
}

func acquireFile(path string, size int, c format.Compression) (*Sample, error) {
	f, err := os.Open(path) //nolint:gosec // CLI tool needs to open user-specified files
	if err != nil {
		return nil, fmt.Errorf("cannot open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	if c != format.CompressionGzip {
		return read(f, size, format.CompressionNone)
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("cannot open gzip input: %w", err)
	}
	defer func() { _ = gz.Close() }()

	return read(gz, size, format.CompressionGzip)
}

// read fills at most size+1 bytes from r. A short read is not an error.
func read(r io.Reader, size int, c format.Compression) (*Sample, error) {
	buf := make([]byte, size+1)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return &Sample{Data: buf[:n], Compression: c}, nil
}

// FromBytes wraps an in-memory window, truncated to the default bound.
func FromBytes(data []byte) *Sample {
	if len(data) > DefaultSize+1 {
		data = data[:DefaultSize+1]
	}
	return &Sample{Data: data, Compression: format.CompressionNone}
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 || o.Size > DefaultSize {
		o.Size = DefaultSize
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}
