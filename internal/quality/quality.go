// Package quality classifies FASTQ quality strings and separator lines.
package quality

import (
	"bytes"

	"github.com/vertti/fqsniff/internal/format"
)

// Phred offset of the first printable quality character ('!').
const Phred33Offset = 33

// encodingRange is an inclusive byte range of one quality encoding.
type encodingRange struct {
	qualType format.QualType
	lo, hi   byte
}

// Encodings ordered strictest first; a sample takes the first range that
// contains every quality character it has.
var encodings = []encodingRange{
	{format.QualTypeSanger, Phred33Offset, Phred33Offset + 40},          // '!'..'I'
	{format.QualTypeIllumina18, Phred33Offset, Phred33Offset + 41},      // '!'..'J'
	{format.QualTypeIllumina15, Phred33Offset + 33, Phred33Offset + 71}, // 'B'..'h'
	{format.QualTypeIllumina13, Phred33Offset + 31, Phred33Offset + 71}, // '@'..'h'
	{format.QualTypeSolexa, Phred33Offset + 26, Phred33Offset + 71},     // ';'..'h'
}

// Classifier accumulates quality characters and separator identifiers
// across the records of one sample.
type Classifier struct {
	min, max byte
	any      bool
	ids      format.QualIDs // empty until a mismatch is seen
}

// Observe records one FASTQ record: its identifier, the text after '+',
// and its quality block.
func (c *Classifier) Observe(id, id2, qual []byte) {
	c.observeIDs(id, id2)
	c.observeQuality(qual)
}

func (c *Classifier) observeIDs(id, id2 []byte) {
	if bytes.Equal(id, id2) {
		return
	}
	// nonmatch is sticky; blank_second only applies while nothing worse was seen.
	if len(id2) == 0 && c.ids != format.QualIDsNonmatch {
		c.ids = format.QualIDsBlankSecond
		return
	}
	c.ids = format.QualIDsNonmatch
}

func (c *Classifier) observeQuality(qual []byte) {
	for _, b := range qual {
		// Line structure inside a wrapped quality block is not a score.
		if b == '\n' || b == '\r' {
			continue
		}
		if !c.any || b < c.min {
			c.min = b
		}
		if !c.any || b > c.max {
			c.max = b
		}
		c.any = true
	}
}

// IDs returns the identifier consistency state.
func (c *Classifier) IDs() format.QualIDs {
	if c.ids == "" {
		return format.QualIDsMatch
	}
	return c.ids
}

// Encoding returns the strictest encoding whose range covers every quality
// character observed. With no characters at all every range matches.
func (c *Classifier) Encoding() format.QualType {
	if !c.any {
		return encodings[0].qualType
	}
	for _, e := range encodings {
		if c.min >= e.lo && c.max <= e.hi {
			return e.qualType
		}
	}
	return format.QualTypeBad
}

// Stats returns the classifier's contribution to a status.
func (c *Classifier) Stats() *format.QualStats {
	return &format.QualStats{IDs: c.IDs(), Type: c.Encoding()}
}
