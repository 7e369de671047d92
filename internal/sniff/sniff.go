// Package sniff classifies a FASTA or FASTQ input from a bounded sample.
package sniff

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/vertti/fqsniff/internal/composition"
	"github.com/vertti/fqsniff/internal/format"
	"github.com/vertti/fqsniff/internal/parser"
	"github.com/vertti/fqsniff/internal/sample"
)

// Options configures sniffing.
type Options struct {
	Compression format.Compression // auto (default), none or gzip
	SampleSize  int                // bytes read after the leading byte (default: sample.DefaultSize)
	Workers     int                // parallel files in Files (default: NumCPU)
	Logger      logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}

// File samples path (standard input when empty or "-") and classifies it.
// Structural failures wrap format.ErrCannotSniff; content that cannot be
// classified yields a bad status and no error.
func File(path string, opts Options) (*format.Status, error) {
	opts = opts.withDefaults()

	s, err := sample.Acquire(path, sample.Options{
		Compression: opts.Compression,
		Size:        opts.SampleSize,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	status, err := Sniff(s)
	if err != nil {
		return nil, err
	}

	opts.Logger.WithFields(logrus.Fields{
		"path":        path,
		"bytes":       len(s.Data),
		"file_type":   status.FileType,
		"compression": status.Compression,
	}).Debug("sniffed")

	return status, nil
}

// Bytes classifies an in-memory window as if it were an uncompressed file.
func Bytes(data []byte) (*format.Status, error) {
	return Sniff(sample.FromBytes(data))
}

// Sniff classifies an acquired sample.
func Sniff(s *sample.Sample) (*format.Status, error) {
	first, _ := s.First()
	tok, err := parser.Tokenize(first, s.Body())
	if err != nil {
		return nil, err
	}

	if len(tok.Records) < 1 || tok.Histogram.Total() < 1 {
		return format.Bad(s.Compression), nil
	}

	stats, ok := composition.Analyze(&tok.Histogram)
	if !ok {
		return format.Bad(s.Compression), nil
	}

	status := &format.Status{
		FileType:    tok.FileType,
		Compression: s.Compression,
		SeqStats:    stats,
		IDStats:     &format.IDStats{Interleaved: Interleaved(tok.IDs())},
	}
	if tok.Quality != nil {
		status.QualStats = tok.Quality.Stats()
	}
	return status, nil
}
