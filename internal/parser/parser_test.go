package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertti/fqsniff/internal/format"
)

// tokenize splits a whole window the way the sample acquirer does.
func tokenize(t *testing.T, window string) *Tokens {
	t.Helper()

	require.NotEmpty(t, window)
	tok, err := Tokenize(window[0], []byte(window[1:]))
	require.NoError(t, err)
	return tok
}

func TestTokenizeFASTASingleRecord(t *testing.T) {
	t.Parallel()

	tok := tokenize(t, ">test\nAGCT")

	assert.Equal(t, format.FileTypeFASTA, tok.FileType)
	require.Len(t, tok.Records, 1)
	assert.Equal(t, []byte("test"), tok.Records[0].ID)
	assert.Equal(t, []byte("AGCT"), tok.Records[0].Sequence)
	assert.False(t, tok.Records[0].HasQuality)
	assert.Nil(t, tok.Quality)
	assert.Equal(t, 4, tok.Histogram.Total())
}

func TestTokenizeFASTAMultipleRecords(t *testing.T) {
	t.Parallel()

	input := `>SEQ_1 description
ACGTACGT
ACGT
>SEQ_2
GGGG
>SEQ_3
TTTT
`
	tok := tokenize(t, input)

	tests := []struct {
		id  string
		seq string
	}{
		{"SEQ_1 description", "ACGTACGT\nACGT"},
		{"SEQ_2", "GGGG"},
		{"SEQ_3", "TTTT\n"},
	}

	require.Len(t, tok.Records, len(tests))
	for i, tt := range tests {
		assert.Equal(t, []byte(tt.id), tok.Records[i].ID)
		assert.Equal(t, []byte(tt.seq), tok.Records[i].Sequence)
	}

	// The internal newline of SEQ_1 is counted, trailing whitespace is not.
	assert.Equal(t, 1, tok.Histogram.Count('\n'))
	assert.Equal(t, 21, tok.Histogram.Total())
}

func TestTokenizeFASTADropsRecordsWithoutSequence(t *testing.T) {
	t.Parallel()

	tok := tokenize(t, ">empty\n>full\nACGT\n>truncated")

	require.Len(t, tok.Records, 1)
	assert.Equal(t, []byte("full"), tok.Records[0].ID)
}

func TestTokenizeFASTAInlineMarkerStaysInSequence(t *testing.T) {
	t.Parallel()

	tok := tokenize(t, ">r1\nAC>GT\n>r2\nAAAA")

	require.Len(t, tok.Records, 2)
	assert.Equal(t, []byte("AC>GT"), tok.Records[0].Sequence)
}

func TestTokenizeFASTQSingleRecord(t *testing.T) {
	t.Parallel()

	tok := tokenize(t, "@test\nAGCU\n+test\nAAAA")

	assert.Equal(t, format.FileTypeFASTQ, tok.FileType)
	require.Len(t, tok.Records, 1)

	rec := tok.Records[0]
	assert.Equal(t, []byte("test"), rec.ID)
	assert.Equal(t, []byte("AGCU"), rec.Sequence)
	assert.Equal(t, []byte("test"), rec.ID2)
	assert.Equal(t, []byte("AAAA"), rec.Quality)
	assert.True(t, rec.HasQuality)

	require.NotNil(t, tok.Quality)
	assert.Equal(t, format.QualIDsMatch, tok.Quality.IDs())
}

func TestTokenizeFASTQMultipleRecords(t *testing.T) {
	t.Parallel()

	input := `@SEQ_1
AAAA
+
!!!!
@SEQ_2
CCCC
+SEQ_2
####
@SEQ_3
GGGG
+
$$$$
`
	tok := tokenize(t, input)

	tests := []struct {
		id   string
		seq  string
		id2  string
		qual string
	}{
		{"SEQ_1", "AAAA", "", "!!!!"},
		{"SEQ_2", "CCCC", "SEQ_2", "####"},
		{"SEQ_3", "GGGG", "", "$$$$\n"},
	}

	require.Len(t, tok.Records, len(tests))
	for i, tt := range tests {
		rec := tok.Records[i]
		assert.Equal(t, []byte(tt.id), rec.ID)
		assert.Equal(t, []byte(tt.seq), rec.Sequence)
		assert.Equal(t, []byte(tt.id2), rec.ID2)
		assert.Equal(t, []byte(tt.qual), rec.Quality)
	}

	assert.Equal(t, 12, tok.Histogram.Total())
	assert.Equal(t, format.QualIDsBlankSecond, tok.Quality.IDs())
	assert.Equal(t, format.QualTypeSanger, tok.Quality.Encoding())
}

func TestTokenizeFASTQQualityStartingWithAt(t *testing.T) {
	t.Parallel()

	tok := tokenize(t, "@r1\nACGT\n+\n@@hh\n@r2\nACGT\n+\nhhhh")

	require.Len(t, tok.Records, 2)
	assert.Equal(t, []byte("@@hh"), tok.Records[0].Quality)
	assert.Equal(t, format.QualTypeIllumina13, tok.Quality.Encoding())
}

func TestTokenizeFASTQMultilineQuality(t *testing.T) {
	t.Parallel()

	tok := tokenize(t, "@r1\nACGTACGT\n+\nIIII\nIIII\n@r2\nACGT\n+\nIIII")

	require.Len(t, tok.Records, 2)
	assert.Equal(t, []byte("IIII\nIIII"), tok.Records[0].Quality)
}

func TestTokenizeFASTQDropsPartialTail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"cut in id", "@r1\nACGT\n+\nIIII\n@r2", 1},
		{"cut in sequence", "@r1\nACGT\n+\nIIII\n@r2\nAC", 1},
		{"cut before quality", "@r1\nACGT\n+\nIIII\n@r2\nACGT\n+\n", 1},
		{"missing separator", "@r1\nACGT\nIIII\n@r2\nACGT\n+\nIIII", 1},
		{"cut in quality", "@r1\nACGT\n+\nIIII\n@r2\nACGT\n+\nII", 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok := tokenize(t, tt.input)
			assert.Len(t, tok.Records, tt.want)
		})
	}
}

func TestTokenizeNoRecords(t *testing.T) {
	t.Parallel()

	for _, input := range []string{">", ">id only", "@", "@r1\nACGT"} {
		tok := tokenize(t, input)
		assert.Empty(t, tok.Records, input)
		assert.Zero(t, tok.Histogram.Total(), input)
	}
}

func TestTokenizeInvalidFormat(t *testing.T) {
	t.Parallel()

	for _, first := range []byte{'A', '#', 0x1f, ' '} {
		tok, err := Tokenize(first, []byte("r1\nACGT\n"))
		require.ErrorIs(t, err, ErrInvalidFormat)
		assert.ErrorIs(t, err, format.ErrCannotSniff)
		assert.Nil(t, tok)
	}
}

func TestTokensIDs(t *testing.T) {
	t.Parallel()

	tok := tokenize(t, ">a/1\nAC\n>a/2\nGT\n>b/1\nAA")
	assert.Equal(t, [][]byte{[]byte("a/1"), []byte("a/2"), []byte("b/1")}, tok.IDs())
}

func BenchmarkTokenizeFASTQ(b *testing.B) {
	var buf bytes.Buffer
	seq := strings.Repeat("ACGT", 38) // 152 bp typical Illumina read
	qual := strings.Repeat("I", 152)
	for buf.Len() < 1_000_000 {
		buf.WriteString("@HWI-ST123:4:1101:14346:1976#0/1\n")
		buf.WriteString(seq + "\n")
		buf.WriteString("+\n")
		buf.WriteString(qual + "\n")
	}
	input := buf.Bytes()

	b.ResetTimer()
	b.SetBytes(int64(len(input)))

	for i := 0; i < b.N; i++ {
		_, _ = Tokenize(input[0], input[1:])
	}
}
