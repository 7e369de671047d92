// Package format defines the vocabulary shared by the sniffer stages:
// compression and file type tags, sequence and quality classes, and the
// status record written for each input.
package format

import (
	"errors"
	"fmt"
)

// GzipMagic is the first byte of every gzip member.
const GzipMagic byte = 0x1f

// Record markers that open a FASTA or FASTQ entry.
const (
	FASTAMarker byte = '>'
	FASTQMarker byte = '@'
)

// ErrCannotSniff is the single error kind for structural failures: input
// that can never be classified, as opposed to content that classifies as bad.
var ErrCannotSniff = errors.New("cannot sniff input")

// Compression identifies the wrapper around the sequence data.
type Compression string

// Compression tags. CompressionAuto is only meaningful as a request.
const (
	CompressionAuto Compression = ""
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
)

// ParseCompression maps a user supplied tag to a Compression.
// "auto" and the empty string both request detection.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "auto":
		return CompressionAuto, nil
	case string(CompressionNone):
		return CompressionNone, nil
	case string(CompressionGzip):
		return CompressionGzip, nil
	default:
		return CompressionAuto, fmt.Errorf("unknown compression %q (want auto, none or gzip)", s)
	}
}

// FileType is the record format of a sample.
type FileType string

// File types.
const (
	FileTypeFASTA FileType = "fasta"
	FileTypeFASTQ FileType = "fastq"
	FileTypeBad   FileType = "bad"
)

// SeqType is the kind of biological sequence.
type SeqType string

// Sequence types.
const (
	SeqTypeDNA SeqType = "dna"
	SeqTypeRNA SeqType = "rna"
	SeqTypeAA  SeqType = "aa"
)

// IsNucleotide reports whether t is dna or rna.
func (t SeqType) IsNucleotide() bool {
	return t == SeqTypeDNA || t == SeqTypeRNA
}

// QualIDs describes how FASTQ separator lines relate to their identifiers.
type QualIDs string

// Identifier consistency states.
const (
	QualIDsMatch       QualIDs = "match"
	QualIDsBlankSecond QualIDs = "blank_second"
	QualIDsNonmatch    QualIDs = "nonmatch"
)

// QualType is the quality score encoding of a FASTQ sample.
type QualType string

// Quality encodings, strictest first.
const (
	QualTypeSanger     QualType = "sanger"
	QualTypeIllumina18 QualType = "illumina 1.8"
	QualTypeIllumina15 QualType = "illumina 1.5"
	QualTypeIllumina13 QualType = "illumina 1.3"
	QualTypeSolexa     QualType = "solexa"
	QualTypeBad        QualType = "bad"
)
