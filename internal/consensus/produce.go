package consensus

import (
	"context"

	"github.com/pbenner/threadpool"

	"github.com/mlebeur/spectrassembler/config"
)

// produceWindows writes each window's fragment set to the component's
// staging directory and aligns it, with windows running concurrently in a
// bounded pool. The returned slice holds one consensus per window index;
// a window with no fragments or a failed engine run is left empty and the
// failure, if any, is reported separately.
//
// produceWindows returns only once every window has settled: it is the
// synchronization barrier between the parallel alignment phase and the
// sequential stitching phase
func produceWindows(ctx context.Context, eng Engine, reads []Read, cc, n int, conf config.Config) ([]string, []error) {
	consensuses := make([]string, n)
	failures := make([]error, n)

	pool := threadpool.New(conf.Parallelism, 100*conf.Parallelism)
	g := pool.NewJobGroup()

	pool.AddRangeJob(0, n, g, func(w int, pool threadpool.ThreadPool, erf func() error) error {
		fragments := windowFragments(reads, w, conf.Windows.Length, conf.Windows.Overlap)
		if len(fragments) == 0 {
			// sparse coverage: the window contributes nothing
			return nil
		}

		in := windowInputPath(conf.Dir, cc, w, conf.Format)
		if err := writeFragments(in, fragments, conf.Format); err != nil {
			failures[w] = err
			return nil
		}

		cons, err := eng.Consensus(ctx, in)
		if err != nil {
			// isolated to this window, the rest keep running
			failures[w] = err
			return nil
		}

		consensuses[w] = cons
		return nil
	})
	pool.Wait(g)

	var errs []error
	for _, err := range failures {
		if err != nil {
			errs = append(errs, err)
		}
	}

	return consensuses, errs
}
