// Package consensus computes one consensus sequence per connected component
// of reads: the component's span is partitioned into overlapping windows,
// each window's read fragments are aligned with spoa, and the per-window
// consensuses are stitched left-to-right into a single contig consensus.
package consensus

import (
	"bytes"
	"strings"
)

// Read is a single sequencing read placed on a connected component.
// Begin and End are in the component's local coordinate frame.
type Read struct {
	// ID is the read's identifier from the input file
	ID string

	// the read's nucleotide sequence
	Seq string

	// per-base quality line, empty unless the reads were fastq
	Qual string

	// Strand is true when the read is on the forward strand
	Strand bool

	// leftmost base coordinate of the read on the component
	Begin int

	// rightmost base coordinate of the read on the component
	End int
}

// Component is one connected component: the reads inferred to
// originate from the same assembled region (contig)
type Component struct {
	// Index of the component in the input layout
	Index int

	// the component's reads, with their layout coordinates
	Reads []Read
}

// normalize returns a copy of the reads with all minus strand reads
// replaced by their reverse complement (ID preserved) and all coordinates
// shifted so the smallest begin position is zero. The input slice is
// never mutated
func normalize(reads []Read) []Read {
	if len(reads) == 0 {
		return nil
	}

	minBegin := reads[0].Begin
	for _, r := range reads {
		if r.Begin < minBegin {
			minBegin = r.Begin
		}
	}

	normalized := make([]Read, len(reads))
	for i, r := range reads {
		r.Begin -= minBegin
		r.End -= minBegin

		if !r.Strand {
			r.Seq = reverseComplement(r.Seq)
			r.Qual = reverseString(r.Qual)
			r.Strand = true
		}

		normalized[i] = r
	}

	return normalized
}

// span returns the length of the coordinate range covered by the reads,
// max(end) - min(begin)
func span(reads []Read) int {
	if len(reads) == 0 {
		return 0
	}

	minBegin := reads[0].Begin
	maxEnd := reads[0].End
	for _, r := range reads {
		if r.Begin < minBegin {
			minBegin = r.Begin
		}
		if r.End > maxEnd {
			maxEnd = r.End
		}
	}

	return maxEnd - minBegin
}

// reverseComplement returns the reverse complement of a sequence
func reverseComplement(seq string) string {
	seq = strings.ToUpper(seq)

	revCompMap := map[rune]byte{
		'A': 'T',
		'T': 'A',
		'G': 'C',
		'C': 'G',
		'N': 'N',
	}

	var revCompBuffer bytes.Buffer
	for _, c := range seq {
		revCompBuffer.WriteByte(revCompMap[c])
	}

	revCompBytes := revCompBuffer.Bytes()
	for i := 0; i < len(revCompBytes)/2; i++ {
		j := len(revCompBytes) - i - 1
		revCompBytes[i], revCompBytes[j] = revCompBytes[j], revCompBytes[i]
	}

	return string(revCompBytes)
}

// reverseString reverses a quality line so it stays aligned with a
// reverse complemented sequence
func reverseString(s string) string {
	if s == "" {
		return s
	}

	b := []byte(s)
	for i := 0; i < len(b)/2; i++ {
		j := len(b) - i - 1
		b[i], b[j] = b[j], b[i]
	}

	return string(b)
}
