package consensus

import (
	"context"
	"fmt"
	"os"

	"github.com/mlebeur/spectrassembler/config"
)

// edgeWindows is the number of windows at each end of a component whose
// consensus is used untrimmed: the contig's first and last windows have no
// outside data to fall back on and must not lose real sequence
const edgeWindows = 3

// stitcher folds the ordered per-window consensuses into one contig
// consensus. It is strictly sequential: the running consensus after
// window w depends only on its state after window w-1
type stitcher struct {
	// eng re-aligns the running consensus tail against the next window
	eng Engine

	// cc is the component index, used for seam staging file names
	cc int

	conf config.Config
}

// stitchMargin returns the trim margin for window w of n: zero for the
// first and last edgeWindows windows, the configured margin otherwise
func stitchMargin(w, n, margin int) int {
	if w < edgeWindows || w >= n-edgeWindows {
		return 0
	}
	return margin
}

// trimEnds removes margin bases from each end of a window consensus,
// discounting its lower-confidence edges
func trimEnds(seq string, margin int) string {
	if len(seq) <= 2*margin {
		return ""
	}
	return seq[margin : len(seq)-margin]
}

// stitch merges the per-window consensuses left to right into the
// contig's consensus. A window with an empty consensus is a no-op: the
// running consensus passes through unchanged
func (s *stitcher) stitch(ctx context.Context, consensuses []string) (string, error) {
	n := len(consensuses)
	if n == 0 {
		return "", nil
	}

	// window 0 seeds the running consensus, untrimmed
	cons := consensuses[0]

	for w := 1; w < n; w++ {
		next := trimEnds(consensuses[w], stitchMargin(w, n, s.conf.Stitch.TrimMargin))
		if next == "" {
			continue
		}

		// split off the tail that the next window may disagree with;
		// everything before it is settled and never touched again
		keptLen := len(cons) - len(next) - s.conf.Stitch.MergeMargin
		if keptLen < 0 {
			keptLen = 0
		}
		kept, tail := cons[:keptLen], cons[keptLen:]

		stitchedTail, err := s.alignSeam(ctx, w, tail, next)
		if err != nil {
			// drop the window, the running consensus is still valid
			if s.conf.Verbosity >= 1 {
				stderr.Printf("skipping window %d of component %d: %v", w, s.cc, err)
			}
			continue
		}

		cons = kept + stitchedTail

		if s.conf.Verbosity >= 2 && w%500 == 0 {
			stderr.Printf("consensus generation... %dbp extracted so far (window %d)", len(cons), w)
		}
	}

	return cons, nil
}

// alignSeam reconciles the running consensus tail and the next window's
// consensus into one sequence spanning the seam
func (s *stitcher) alignSeam(ctx context.Context, w int, tail, next string) (string, error) {
	in := seamInputPath(s.conf.Dir, s.cc, w)

	seam := []Fragment{
		{ID: "end_of_current_cons", Seq: tail},
		{ID: fmt.Sprintf("cons_in_window_%d", w), Seq: next},
	}
	if err := writeFragments(in, seam, "fasta"); err != nil {
		return "", err
	}

	// the seam files are transient, unlike the window staging files
	defer os.Remove(in)
	defer os.Remove(engineOutPath(in))

	return s.eng.Consensus(ctx, in)
}
