package consensus

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mlebeur/spectrassembler/config"
)

// ConsensusCmd takes a cobra command (with its flags) and runs the
// consensus pipeline over every connected component in the layout
func ConsensusCmd(cmd *cobra.Command, args []string) {
	reads, err := cmd.Flags().GetString("reads")
	if err != nil {
		stderr.Fatalf("failed to parse the reads flag: %v", err)
	}

	layout, err := cmd.Flags().GetString("layout")
	if err != nil {
		stderr.Fatalf("failed to parse the layout flag: %v", err)
	}

	conf := config.New()
	if err := conf.Validate(); err != nil {
		stderr.Fatalf("invalid settings: %v", err)
	}

	start := time.Now()
	built, failed, err := Run(context.Background(), reads, layout, conf)
	if err != nil {
		stderr.Fatalf("failed to run consensus generation: %v", err)
	}

	if conf.Verbosity >= 1 {
		stderr.Printf("built %d consensus record(s), %d component(s) failed (%s)", built, failed, time.Since(start))
	}
}

// Run computes a consensus for every component laid out in the layout
// file. Components are independent: they run concurrently up to the
// configured job limit, and one component's failure is reported without
// halting the others
func Run(ctx context.Context, readsPath, layoutPath string, conf config.Config) (built, failed int, err error) {
	if err := conf.Validate(); err != nil {
		return 0, 0, err
	}

	records, err := ReadRecords(readsPath)
	if err != nil {
		return 0, 0, err
	}

	components, err := ReadLayout(layoutPath, records)
	if err != nil {
		return 0, 0, err
	}

	asm := NewAssembler(conf, NewSpoaEngine(conf.Engine))

	var failures int32
	g := new(errgroup.Group)
	g.SetLimit(conf.Jobs)
	for _, c := range components {
		c := c
		g.Go(func() error {
			if _, err := asm.Assemble(ctx, c); err != nil {
				stderr.Printf("skipping component %d: %v", c.Index, err)
				atomic.AddInt32(&failures, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	failed = int(failures)
	return len(components) - failed, failed, nil
}
