// Package parser tokenizes a bounded FASTA or FASTQ sample window into
// pseudo-records.
//
// The window is cut at an arbitrary byte, so the last record may be
// partial. Records that do not fit their grammar are dropped and scanning
// resumes at the next line that starts with the record marker.
package parser

import (
	"bytes"
	"fmt"

	"github.com/vertti/fqsniff/internal/composition"
	"github.com/vertti/fqsniff/internal/format"
	"github.com/vertti/fqsniff/internal/quality"
)

// ErrInvalidFormat is returned when the leading byte is neither '>' nor '@'.
var ErrInvalidFormat = fmt.Errorf("%w: not a valid FASTA or FASTQ file", format.ErrCannotSniff)

// Record is one pseudo-record. Slices point into the sample window.
type Record struct {
	ID         []byte // identifier line without the record marker
	Sequence   []byte
	ID2        []byte // text after '+' (FASTQ only, may be empty)
	Quality    []byte // quality block (FASTQ only, may span lines)
	HasQuality bool
}

// Tokens is everything the analyzers need from a tokenized window.
type Tokens struct {
	FileType  format.FileType
	Records   []Record
	Histogram composition.Histogram
	Quality   *quality.Classifier // nil for FASTA
}

// IDs returns the record identifiers in window order.
func (t *Tokens) IDs() [][]byte {
	ids := make([][]byte, len(t.Records))
	for i := range t.Records {
		ids[i] = t.Records[i].ID
	}
	return ids
}

// Tokenize dispatches on the leading byte and runs the matching grammar
// over body, the bytes that follow it.
func Tokenize(first byte, body []byte) (*Tokens, error) {
	switch first {
	case format.FASTAMarker:
		t := &Tokens{FileType: format.FileTypeFASTA}
		scan(body, format.FASTAMarker, fastaRecord, func(rec Record) {
			t.Records = append(t.Records, rec)
			t.Histogram.Add(bytes.TrimRight(rec.Sequence, " \t\r\n\v\f"))
		})
		return t, nil
	case format.FASTQMarker:
		t := &Tokens{FileType: format.FileTypeFASTQ, Quality: &quality.Classifier{}}
		scan(body, format.FASTQMarker, fastqRecord, func(rec Record) {
			t.Records = append(t.Records, rec)
			t.Histogram.Add(rec.Sequence)
			t.Quality.Observe(rec.ID, rec.ID2, rec.Quality)
		})
		return t, nil
	default:
		return nil, ErrInvalidFormat
	}
}

// recordFunc parses one record starting at pos. It returns the position
// after the record's terminator, or ok=false if the grammar does not match.
type recordFunc func(body []byte, pos int) (rec Record, next int, ok bool)

func scan(body []byte, marker byte, parse recordFunc, emit func(Record)) {
	pos := 0
	for pos < len(body) {
		rec, next, ok := parse(body, pos)
		if !ok {
			pos = resync(body, pos, marker)
			continue
		}
		emit(rec)
		pos = next
	}
}

// fastaRecord matches an identifier line followed by a sequence block that
// runs up to the next line starting with '>' or the end of the window.
func fastaRecord(body []byte, pos int) (Record, int, bool) {
	id, pos, ok := line(body, pos)
	if !ok || len(id) == 0 {
		return Record{}, 0, false
	}
	if pos >= len(body) || body[pos] == format.FASTAMarker {
		return Record{}, 0, false
	}
	seq, next := block(body, pos, format.FASTAMarker)
	return Record{ID: id, Sequence: seq}, next, true
}

// fastqRecord matches identifier, single sequence line, '+' separator and a
// quality block that runs up to the next line starting with '@' or the end
// of the window.
func fastqRecord(body []byte, pos int) (Record, int, bool) {
	id, pos, ok := line(body, pos)
	if !ok || len(id) == 0 {
		return Record{}, 0, false
	}
	seq, pos, ok := line(body, pos)
	if !ok || len(seq) == 0 {
		return Record{}, 0, false
	}
	sep, pos, ok := line(body, pos)
	if !ok || len(sep) == 0 || sep[0] != '+' {
		return Record{}, 0, false
	}
	qual, next := block(body, pos, format.FASTQMarker)
	if len(qual) == 0 {
		return Record{}, 0, false
	}
	return Record{ID: id, Sequence: seq, ID2: sep[1:], Quality: qual, HasQuality: true}, next, true
}

// line returns the newline-terminated line at pos and the position after
// the newline. An unterminated line does not match.
func line(body []byte, pos int) ([]byte, int, bool) {
	i := bytes.IndexByte(body[pos:], '\n')
	if i < 0 {
		return nil, 0, false
	}
	return body[pos : pos+i], pos + i + 1, true
}

// block returns the bytes from pos up to the next newline+marker pair (or
// the end of body) and the position just after that marker.
func block(body []byte, pos int, marker byte) ([]byte, int) {
	i := bytes.Index(body[pos:], []byte{'\n', marker})
	if i < 0 {
		return body[pos:], len(body)
	}
	return body[pos : pos+i], pos + i + 2
}

// resync skips to just after the next newline+marker pair at or after pos.
func resync(body []byte, pos int, marker byte) int {
	i := bytes.Index(body[pos:], []byte{'\n', marker})
	if i < 0 {
		return len(body)
	}
	return pos + i + 2
}
