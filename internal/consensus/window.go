package consensus

// minFragmentLength is the shortest piece of a read that is worth
// aligning: clipped fragments below this contribute nothing to a window
const minFragmentLength = 20

// Fragment is the portion of a read's sequence that lies inside a window
type Fragment struct {
	// ID of the read the fragment was clipped from
	ID string

	// the clipped sequence
	Seq string

	// the clipped quality line, empty unless the reads were fastq
	Qual string
}

// windowCount returns the number of overlapping windows needed to cover
// a component's span: floor(span / (length - overlap)) + 1
func windowCount(span, length, overlap int) int {
	return span/(length-overlap) + 1
}

// windowBounds returns the coordinate range [begin, end) of the w-th window
func windowBounds(w, length, overlap int) (begin, end int) {
	begin = w * (length - overlap)
	end = begin + length
	return
}

// windowFragments clips every read that overlaps the w-th window to the
// part contained in it. Reads are selected when their [begin, end) interval
// intersects the window's, and fragments shorter than minFragmentLength
// are discarded
func windowFragments(reads []Read, w, length, overlap int) []Fragment {
	winBegin, winEnd := windowBounds(w, length, overlap)

	var fragments []Fragment
	for _, r := range reads {
		if r.Begin >= winEnd || r.End <= winBegin {
			continue
		}

		// trim the read to the part contained in the window
		readLen := len(r.Seq)
		bb := winBegin - r.Begin
		if bb < 0 {
			bb = 0
		}
		ee := winEnd - r.Begin
		if ee > readLen {
			ee = readLen
		}

		// do not add too small pieces of sequence
		if ee-bb < minFragmentLength {
			continue
		}

		f := Fragment{ID: r.ID, Seq: r.Seq[bb:ee]}
		if len(r.Qual) == readLen {
			f.Qual = r.Qual[bb:ee]
		}
		fragments = append(fragments, f)
	}

	return fragments
}
