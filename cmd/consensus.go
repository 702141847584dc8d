package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mlebeur/spectrassembler/internal/consensus"
)

// consensusCmd computes one consensus sequence per connected component
var consensusCmd = &cobra.Command{
	Use:   "consensus",
	Short: "Compute a consensus sequence for each connected component of reads",
	Long: `
Compute a consensus sequence for each connected component (contig) of reads.

The component's coordinate span is split into fixed-length overlapping
windows. The part of every read that falls inside a window is aligned with
spoa to get a window-local consensus, windows running in parallel. The
window consensuses are then merged left to right: the end of the growing
consensus is re-aligned against each next window so the overlap seams do
not duplicate or lose sequence.

Read placements come from a layout file with one read per line:
component-index, read-index, strand (+/-), begin and end coordinates`,
	Run: consensus.ConsensusCmd,
}

// set flags
func init() {
	rootCmd.AddCommand(consensusCmd)

	consensusCmd.Flags().StringP("reads", "r", "", "path to the reads file (FASTA or FASTQ)")
	consensusCmd.Flags().StringP("layout", "c", "", "path to the component layout file")
	consensusCmd.Flags().StringP("dir", "d", ".", "working directory for staging files and consensus records")

	consensusCmd.Flags().Int("window-length", 2500, "length of each alignment window in bp")
	consensusCmd.Flags().Int("window-overlap", 1250, "overlap between consecutive windows in bp")
	consensusCmd.Flags().Int("trim-margin", 200, "bp trimmed from each end of an interior window's consensus")
	consensusCmd.Flags().Int("merge-margin", 325, "bp of the running consensus tail re-aligned at each seam")

	consensusCmd.Flags().String("spoa", "spoa", "path to the spoa executable")
	consensusCmd.Flags().Int("match", 5, "alignment match score")
	consensusCmd.Flags().Int("mismatch", -3, "alignment mismatch penalty")
	consensusCmd.Flags().Int("gap-open", -5, "alignment gap opening penalty")
	consensusCmd.Flags().Int("gap-extend", -2, "alignment gap extension penalty")
	consensusCmd.Flags().String("mode", "semi-global", "alignment mode: local, global or semi-global")
	consensusCmd.Flags().Int("timeout", 0, "seconds to wait on one spoa run, 0 for no limit")

	consensusCmd.Flags().String("format", "fasta", "read format: fasta or fastq")
	consensusCmd.Flags().IntP("parallelism", "p", runtime.NumCPU(), "windows aligned concurrently within a component")
	consensusCmd.Flags().IntP("jobs", "j", 1, "components processed concurrently")
	consensusCmd.Flags().IntP("verbosity", "v", 1, "0 = errors only, 1 = summary, 2 = progress")

	consensusCmd.MarkFlagRequired("reads")
	consensusCmd.MarkFlagRequired("layout")

	// bind the parameters to viper
	viper.BindPFlag("dir", consensusCmd.Flags().Lookup("dir"))
	viper.BindPFlag("windows.length", consensusCmd.Flags().Lookup("window-length"))
	viper.BindPFlag("windows.overlap", consensusCmd.Flags().Lookup("window-overlap"))
	viper.BindPFlag("stitch.trim-margin", consensusCmd.Flags().Lookup("trim-margin"))
	viper.BindPFlag("stitch.merge-margin", consensusCmd.Flags().Lookup("merge-margin"))
	viper.BindPFlag("engine.path", consensusCmd.Flags().Lookup("spoa"))
	viper.BindPFlag("engine.match", consensusCmd.Flags().Lookup("match"))
	viper.BindPFlag("engine.mismatch", consensusCmd.Flags().Lookup("mismatch"))
	viper.BindPFlag("engine.gap-open", consensusCmd.Flags().Lookup("gap-open"))
	viper.BindPFlag("engine.gap-extend", consensusCmd.Flags().Lookup("gap-extend"))
	viper.BindPFlag("engine.mode", consensusCmd.Flags().Lookup("mode"))
	viper.BindPFlag("engine.timeout-seconds", consensusCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("format", consensusCmd.Flags().Lookup("format"))
	viper.BindPFlag("parallelism", consensusCmd.Flags().Lookup("parallelism"))
	viper.BindPFlag("jobs", consensusCmd.Flags().Lookup("jobs"))
	viper.BindPFlag("verbosity", consensusCmd.Flags().Lookup("verbosity"))
}
