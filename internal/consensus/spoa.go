package consensus

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mlebeur/spectrassembler/config"
)

// Engine computes one consensus sequence from the sequence records staged
// in an input file. A missing or empty input file yields an empty
// consensus and a nil error; an invocation failure yields an EngineError
type Engine interface {
	Consensus(ctx context.Context, in string) (string, error)
}

// EngineError is a failed engine invocation. It is retryable: the window
// it belongs to can be resubmitted without touching any other window
type EngineError struct {
	// In is the engine input file of the failed invocation
	In string

	// Err is the underlying execution error
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("alignment engine failed on %s: %v", e.In, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// SpoaEngine runs multiple sequence alignment with the spoa executable
// (https://github.com/rvaser/spoa) and extracts the consensus from its
// textual output
type SpoaEngine struct {
	// alignment settings passed through to spoa unchanged
	conf config.EngineConfig
}

// NewSpoaEngine returns an engine wrapping the spoa executable
func NewSpoaEngine(conf config.EngineConfig) *SpoaEngine {
	return &SpoaEngine{conf: conf}
}

// Consensus stages spoa against the input file and returns the consensus:
// the last non-empty line of spoa's output. The full output is kept next
// to the input file for inspection
func (s *SpoaEngine) Consensus(ctx context.Context, in string) (string, error) {
	// a missing or empty window contributes nothing, it is not an error
	if stat, err := os.Stat(in); err != nil || stat.Size() == 0 {
		return "", nil
	}

	if s.conf.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.conf.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	spoaCmd := exec.CommandContext(ctx, s.conf.Path, s.args(in)...)

	// execute spoa and wait on it to finish
	output, err := spoaCmd.CombinedOutput()
	if err != nil {
		return "", &EngineError{In: in, Err: fmt.Errorf("%v: %s", err, string(output))}
	}

	// keep the alignment log next to the input file
	out := engineOutPath(in)
	if err := os.WriteFile(out, output, 0666); err != nil {
		return "", fmt.Errorf("failed to write engine output %s: %v", out, err)
	}

	return parseConsensus(output), nil
}

// args builds the spoa flag list from the engine settings
func (s *SpoaEngine) args(in string) []string {
	// -a for fasta, -q for fastq, chosen by the staging file's extension
	// (seam files are always fasta, window files follow the read format)
	formatFlag := "-a"
	if strings.HasSuffix(in, "fastq") {
		formatFlag = "-q"
	}

	return []string{
		formatFlag, in,
		"-l", strconv.Itoa(alignmentMode(s.conf.Mode)),
		"-r", "0", // result mode 0: consensus only
		"-m", strconv.Itoa(s.conf.Match),
		"-x", strconv.Itoa(s.conf.Mismatch),
		"-o", strconv.Itoa(s.conf.GapOpen),
		"-e", strconv.Itoa(s.conf.GapExtend),
	}
}

// alignmentMode maps a mode name to spoa's -l value
func alignmentMode(mode string) int {
	switch mode {
	case "local":
		return 0
	case "global":
		return 1
	default: // semi-global
		return 2
	}
}

// parseConsensus extracts the consensus sequence from spoa's output:
// the last non-empty line, with the alignment trace above it discarded
func parseConsensus(output []byte) string {
	lines := strings.Split(string(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
