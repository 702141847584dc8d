package consensus

import (
	"context"
	"os"
	"testing"

	"github.com/mlebeur/spectrassembler/config"
)

func Test_stitchMargin(t *testing.T) {
	// for 10 windows and a 50bp margin, the first and last three windows
	// are untrimmed and the interior windows use the full margin
	wants := map[int]int{0: 0, 1: 0, 2: 0, 3: 50, 4: 50, 5: 50, 6: 50, 7: 0, 8: 0, 9: 0}

	for w, want := range wants {
		if got := stitchMargin(w, 10, 50); got != want {
			t.Errorf("stitchMargin(%d, 10, 50) = %d, want %d", w, got, want)
		}
	}

	// a short component never trims
	for w := 0; w < 4; w++ {
		if got := stitchMargin(w, 4, 50); got != 0 {
			t.Errorf("stitchMargin(%d, 4, 50) = %d, want 0", w, got)
		}
	}
}

func Test_trimEnds(t *testing.T) {
	tests := []struct {
		seq    string
		margin int
		want   string
	}{
		{"AAATTTCCC", 3, "TTT"},
		{"AAATTTCCC", 0, "AAATTTCCC"},
		{"AAATTT", 3, ""},
		{"AAAT", 3, ""},
		{"", 3, ""},
	}

	for _, tt := range tests {
		if got := trimEnds(tt.seq, tt.margin); got != tt.want {
			t.Errorf("trimEnds(%q, %d) = %q, want %q", tt.seq, tt.margin, got, tt.want)
		}
	}
}

func newTestStitcher(t *testing.T, eng Engine, trimMargin, mergeMargin int) *stitcher {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(componentDir(dir, 0), 0777); err != nil {
		t.Fatal(err)
	}

	conf := config.Config{
		Stitch: config.StitchConfig{TrimMargin: trimMargin, MergeMargin: mergeMargin},
		Dir:    dir,
	}
	return &stitcher{eng: eng, cc: 0, conf: conf}
}

// an empty window consensus leaves the running consensus unchanged
func Test_stitch_emptyWindowNoOp(t *testing.T) {
	eng := &fakeEngine{}
	s := newTestStitcher(t, eng, 0, 10)

	seed := randomSeq(120, 11)
	cons, err := s.stitch(context.Background(), []string{seed, "", ""})
	if err != nil {
		t.Fatal(err)
	}

	if cons != seed {
		t.Errorf("stitch() = %dbp, want the seed consensus unchanged (%dbp)", len(cons), len(seed))
	}
	if eng.calls != 0 {
		t.Errorf("stitch() invoked the engine %d times for empty windows", eng.calls)
	}
}

// the kept prefix length is clamped at zero when the next window's
// consensus is longer than everything stitched so far
func Test_stitch_keptLenClamp(t *testing.T) {
	genome := randomSeq(300, 13)
	eng := &fakeEngine{}
	s := newTestStitcher(t, eng, 0, 50)

	// window 1 covers far more than the 80bp running consensus
	cons, err := s.stitch(context.Background(), []string{genome[0:80], genome[40:300]})
	if err != nil {
		t.Fatal(err)
	}

	if cons != genome {
		t.Errorf("stitch() = %dbp, want the full %dbp sequence", len(cons), len(genome))
	}
}

// consecutive overlapping windows reduce to the underlying sequence
func Test_stitch_overlappingWindows(t *testing.T) {
	genome := randomSeq(500, 17)
	eng := &fakeEngine{}
	s := newTestStitcher(t, eng, 0, 25)

	windows := []string{
		genome[0:200],
		genome[150:350],
		genome[300:500],
	}

	cons, err := s.stitch(context.Background(), windows)
	if err != nil {
		t.Fatal(err)
	}

	if cons != genome {
		t.Errorf("stitch() = %dbp, want the full %dbp sequence", len(cons), len(genome))
	}
	if eng.calls != 2 {
		t.Errorf("stitch() invoked the engine %d times, want 2", eng.calls)
	}
}

// a failed seam alignment drops the window instead of corrupting the
// running consensus
func Test_stitch_seamFailure(t *testing.T) {
	genome := randomSeq(400, 19)
	eng := &failEngine{marker: "win_1"}
	s := newTestStitcher(t, eng, 0, 25)

	windows := []string{
		genome[0:200],
		genome[150:300],
		genome[250:400],
	}

	cons, err := s.stitch(context.Background(), windows)
	if err != nil {
		t.Fatal(err)
	}

	// window 1 was dropped; window 2 still extends the consensus
	want := overlapMerge(genome[0:200], genome[250:400])
	if cons != want {
		t.Errorf("stitch() = %dbp, want %dbp from the surviving windows", len(cons), len(want))
	}
}

func Test_stitch_empty(t *testing.T) {
	s := newTestStitcher(t, &fakeEngine{}, 0, 10)

	cons, err := s.stitch(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if cons != "" {
		t.Errorf("stitch() of no windows = %q, want empty", cons)
	}
}
