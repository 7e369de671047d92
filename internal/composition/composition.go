// Package composition classifies sampled sequence bodies by their
// character composition.
package composition

import (
	"slices"
	"sort"

	"github.com/vertti/fqsniff/internal/format"
)

// topN is how many of the most frequent characters decide nucleotide vs protein.
const topN = 5

// Alphabets, as byte membership tables.
var (
	commonNA  = newSet("ACGNTUX")
	iupacNA   = newSet("ABCDGHIKMNRSTUVWXY")
	iupacAA   = newSet("ABCDEFGHIKLMNPQRSTUVWXYZ*")
	specialNA [256]bool // iupacNA minus commonNA
)

// gcWeight is the expected G+C fraction of each nucleotide code.
var gcWeight [256]float64

func init() {
	for i := range specialNA {
		specialNA[i] = iupacNA[i] && !commonNA[i]
	}

	for _, b := range []byte("GCS") {
		gcWeight[b] = 1
	}
	for _, b := range []byte("KMRYNX") {
		gcWeight[b] = 0.5
	}
	for _, b := range []byte("DH") {
		gcWeight[b] = 0.333
	}
	for _, b := range []byte("BV") {
		gcWeight[b] = 0.667
	}
}

func newSet(s string) [256]bool {
	var set [256]bool
	for i := 0; i < len(s); i++ {
		set[s[i]] = true
	}
	return set
}

// Histogram counts every byte of the sampled sequence bodies. It also
// remembers the order in which distinct bytes first appeared, which breaks
// ties when ranking the most frequent characters.
type Histogram struct {
	counts [256]int
	rank   [256]int // 0 = never seen
	seen   int
}

// Add counts every byte of seq.
func (h *Histogram) Add(seq []byte) {
	for _, b := range seq {
		if h.rank[b] == 0 {
			h.seen++
			h.rank[b] = h.seen
		}
		h.counts[b]++
	}
}

// Count returns the current count of b.
func (h *Histogram) Count(b byte) int {
	return h.counts[b]
}

// Total returns the sum of all counts.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.counts {
		total += c
	}
	return total
}

// take removes b from the histogram and returns its count.
func (h *Histogram) take(b byte) int {
	n := h.counts[b]
	h.counts[b] = 0
	h.rank[b] = 0
	return n
}

// foldCase moves lowercase counts onto their uppercase letters. The folded
// letter keeps the earlier of the two first-seen ranks.
func (h *Histogram) foldCase() bool {
	folded := false
	for lower := byte('a'); lower <= 'z'; lower++ {
		if h.counts[lower] == 0 {
			continue
		}
		folded = true
		upper := lower - 'a' + 'A'
		if h.rank[upper] == 0 || h.rank[lower] < h.rank[upper] {
			h.rank[upper] = h.rank[lower]
		}
		h.counts[upper] += h.take(lower)
	}
	return folded
}

// observed returns the distinct bytes with a non-zero count.
func (h *Histogram) observed() []byte {
	var out []byte
	for b, c := range h.counts {
		if c > 0 {
			out = append(out, byte(b))
		}
	}
	return out
}

// mostCommon returns up to n bytes ordered by count, then by first appearance.
func (h *Histogram) mostCommon(n int) []byte {
	chars := h.observed()
	sort.Slice(chars, func(i, j int) bool {
		ci, cj := h.counts[chars[i]], h.counts[chars[j]]
		if ci != cj {
			return ci > cj
		}
		return h.rank[chars[i]] < h.rank[chars[j]]
	})
	if len(chars) > n {
		chars = chars[:n]
	}
	return chars
}

// Analyze normalizes h in place and classifies it. It returns false when no
// countable characters remain, which callers report as a bad sample.
func Analyze(h *Histogram) (*format.SeqStats, bool) {
	stats := &format.SeqStats{}

	stats.Multiline = h.take('\n')+h.take('\r') > 0
	stats.HasGaps = h.take('.')+h.take('-') > 0
	stats.HasLowercase = h.foldCase()

	total := h.Total()
	if total < 1 {
		return nil, false
	}
	stats.EstAvgLen = total

	observed := h.observed()

	stats.Type = format.SeqTypeAA
	if top := h.mostCommon(topN); allIn(top, &commonNA) {
		stats.Type = format.SeqTypeDNA
		if slices.Contains(top, 'U') {
			stats.Type = format.SeqTypeRNA
		}
	}

	if stats.Type.IsNucleotide() {
		gc := 0.0
		for b, c := range h.counts {
			gc += gcWeight[b] * float64(c)
		}
		gc /= float64(total)

		switch {
		case !anyIn(observed, &specialNA):
			hasIUPAC := false
			stats.HasIUPAC = &hasIUPAC
			stats.EstGC = &gc
		case allIn(observed, &iupacNA):
			hasIUPAC := true
			stats.HasIUPAC = &hasIUPAC
			stats.EstGC = &gc
		default:
			// Letters outside the nucleotide codes: the top-N guess was wrong.
			stats.Type = format.SeqTypeAA
		}
	}

	if stats.Type == format.SeqTypeAA {
		nonIUPAC := !allIn(observed, &iupacAA)
		stats.HasNonIUPAC = &nonIUPAC
	}

	stats.HasUnknowns = (h.counts['N'] > 0 && stats.Type != format.SeqTypeAA) || h.counts['X'] > 0

	return stats, true
}

func allIn(chars []byte, set *[256]bool) bool {
	for _, b := range chars {
		if !set[b] {
			return false
		}
	}
	return true
}

func anyIn(chars []byte, set *[256]bool) bool {
	for _, b := range chars {
		if set[b] {
			return true
		}
	}
	return false
}
