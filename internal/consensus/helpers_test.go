package consensus

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync/atomic"
)

// randomSeq returns a deterministic pseudo-random nucleotide sequence so
// overlap assertions cannot be satisfied by accident
func randomSeq(length int, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	bases := []byte("ATGC")

	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteByte(bases[rng.Intn(len(bases))])
	}
	return b.String()
}

// fakeEngine stands in for spoa: it folds the staged records together by
// their longest exact suffix/prefix overlap. On reads cut from one
// underlying sequence that reproduces the true consensus
type fakeEngine struct {
	// calls counts engine invocations, atomically: windows run concurrently
	calls int32
}

func (e *fakeEngine) Consensus(ctx context.Context, in string) (string, error) {
	if stat, err := os.Stat(in); err != nil || stat.Size() == 0 {
		return "", nil
	}
	atomic.AddInt32(&e.calls, 1)

	records, err := ReadRecords(in)
	if err != nil {
		return "", err
	}

	cons := records[0].Seq
	for _, r := range records[1:] {
		cons = overlapMerge(cons, r.Seq)
	}
	return cons, nil
}

// failEngine fails every invocation whose input file name contains the
// marker, and delegates the rest
type failEngine struct {
	marker   string
	delegate fakeEngine
}

func (e *failEngine) Consensus(ctx context.Context, in string) (string, error) {
	if strings.Contains(in, e.marker) {
		return "", &EngineError{In: in, Err: fmt.Errorf("exit status 1")}
	}
	return e.delegate.Consensus(ctx, in)
}

// overlapMerge joins two sequences on the longest suffix of a that is a
// prefix of b
func overlapMerge(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}

	for k := max; k > 0; k-- {
		if strings.HasSuffix(a, b[:k]) {
			return a + b[k:]
		}
	}
	return a + b
}
