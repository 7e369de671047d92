package format

import "encoding/json"

// Status is the classification of one input. Optional groups are nil when
// they do not apply; a bad sample carries only FileType and Compression.
// Field order is the output key order.
type Status struct {
	FileType    FileType    `json:"file_type"`
	Compression Compression `json:"compression"`
	*SeqStats
	*IDStats
	*QualStats
}

// SeqStats is contributed by the composition analyzer.
type SeqStats struct {
	Multiline    bool     `json:"seq_multiline"`
	EstAvgLen    int      `json:"seq_est_avg_len"` // aggregate over the whole sample
	HasGaps      bool     `json:"seq_has_gaps"`
	HasLowercase bool     `json:"seq_has_lowercase"`
	Type         SeqType  `json:"seq_type"`
	HasIUPAC     *bool    `json:"seq_has_iupac,omitempty"`
	EstGC        *float64 `json:"seq_est_gc,omitempty"`
	HasNonIUPAC  *bool    `json:"seq_has_noniupac,omitempty"`
	HasUnknowns  bool     `json:"seq_has_unknowns"`
}

// IDStats is contributed by the interleave detector.
type IDStats struct {
	Interleaved bool `json:"interleaved"`
}

// QualStats is contributed by the quality classifier, FASTQ only.
type QualStats struct {
	IDs  QualIDs  `json:"qual_ids"`
	Type QualType `json:"qual_type"`
}

// Bad returns the soft failure status for content that could not be
// classified.
func Bad(c Compression) *Status {
	return &Status{FileType: FileTypeBad, Compression: c}
}

// IsBad reports whether s is the soft failure classification.
func (s *Status) IsBad() bool {
	return s.FileType == FileTypeBad
}

// MarshalLine encodes s as a single JSON line without the trailing newline.
func (s *Status) MarshalLine() ([]byte, error) {
	return json.Marshal(s)
}
