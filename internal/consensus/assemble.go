package consensus

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mlebeur/spectrassembler/config"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = log.New(os.Stderr, "", 0)

// Assembler drives the full consensus pipeline for connected components:
// strand normalization, window partitioning, parallel window alignment,
// sequential stitching and the final consensus record
type Assembler struct {
	conf config.Config

	eng Engine
}

// NewAssembler returns an assembler using the passed alignment engine
func NewAssembler(conf config.Config, eng Engine) *Assembler {
	return &Assembler{conf: conf, eng: eng}
}

// Assemble computes and writes one component's consensus. Window
// alignment failures are tolerated (the affected windows contribute
// nothing); a partial consensus is preferred over none
func (a *Assembler) Assemble(ctx context.Context, c Component) (string, error) {
	// an empty component yields an empty consensus, not an error
	if len(c.Reads) == 0 {
		if err := writeConsensus(a.conf.Dir, c.Index, ""); err != nil {
			return "", err
		}
		return "", nil
	}

	if err := os.MkdirAll(componentDir(a.conf.Dir, c.Index), 0777); err != nil {
		return "", fmt.Errorf("failed to create staging directory for component %d: %v", c.Index, err)
	}

	// all windowing math runs on forward strand, zero-based reads
	reads := normalize(c.Reads)

	// the window count is computed here, once, and threaded through to
	// the stitching phase: it is never inferred from directory listings
	n := windowCount(span(reads), a.conf.Windows.Length, a.conf.Windows.Overlap)

	consensuses, errs := produceWindows(ctx, a.eng, reads, c.Index, n, a.conf)
	for _, err := range errs {
		if a.conf.Verbosity >= 1 {
			stderr.Printf("component %d: %v", c.Index, err)
		}
	}

	st := &stitcher{eng: a.eng, cc: c.Index, conf: a.conf}
	cons, err := st.stitch(ctx, consensuses)
	if err != nil {
		return "", fmt.Errorf("failed to stitch component %d: %v", c.Index, err)
	}

	if a.conf.Verbosity >= 2 {
		stderr.Printf("extracted and merged sequences in %d windows for contig %d. Consensus length %dbp", n, c.Index, len(cons))
	}

	if err := writeConsensus(a.conf.Dir, c.Index, cons); err != nil {
		return "", err
	}

	return cons, nil
}
