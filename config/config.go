// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// WindowConfig is settings for partitioning a connected component
// into overlapping windows
type WindowConfig struct {
	// the length of each window in bp
	Length int `mapstructure:"length"`

	// the number of bp shared between consecutive windows
	Overlap int `mapstructure:"overlap"`
}

// StitchConfig is settings for merging window consensuses into one contig
type StitchConfig struct {
	// bp removed from each end of an interior window's consensus before use
	TrimMargin int `mapstructure:"trim-margin"`

	// bound on how much of the running consensus tail is re-aligned
	// when splicing in the next window
	MergeMargin int `mapstructure:"merge-margin"`
}

// EngineConfig is settings for the external multiple sequence
// alignment executable (spoa)
type EngineConfig struct {
	// path to the spoa executable
	Path string `mapstructure:"path"`

	// match score
	Match int `mapstructure:"match"`

	// mismatch penalty (negative)
	Mismatch int `mapstructure:"mismatch"`

	// gap opening penalty (negative)
	GapOpen int `mapstructure:"gap-open"`

	// gap extension penalty (negative)
	GapExtend int `mapstructure:"gap-extend"`

	// alignment mode: local, global or semi-global
	Mode string `mapstructure:"mode"`

	// seconds to wait on a single engine invocation, 0 for no limit
	TimeoutSeconds int `mapstructure:"timeout-seconds"`
}

// Config is the root-level settings struct and is a mix of settings
// available in a config file and those from the command line
type Config struct {
	// window partitioning settings
	Windows WindowConfig `mapstructure:"windows"`

	// consensus stitching settings
	Stitch StitchConfig `mapstructure:"stitch"`

	// alignment engine settings
	Engine EngineConfig `mapstructure:"engine"`

	// sequence record format of the reads: fasta or fastq
	Format string `mapstructure:"format"`

	// number of windows aligned concurrently within one component
	Parallelism int `mapstructure:"parallelism"`

	// number of connected components processed concurrently
	Jobs int `mapstructure:"jobs"`

	// 0 = errors only, 1 = summary, 2 = progress
	Verbosity int `mapstructure:"verbosity"`

	// working directory for staging files and consensus records
	Dir string `mapstructure:"dir"`
}

// New returns a new Config struct populated by Viper settings
// (either from a local config file and/or command line arguments)
func New() Config {
	var c Config

	if err := viper.Unmarshal(&c); err != nil {
		log.Fatalf("unable to decode settings into struct, %v", err)
	}

	return c
}

// Validate checks the settings that the pipeline's window math depends on
func (c Config) Validate() error {
	if c.Windows.Length <= c.Windows.Overlap {
		return fmt.Errorf(
			"window length (%d) must be greater than window overlap (%d)",
			c.Windows.Length,
			c.Windows.Overlap,
		)
	}

	if c.Format != "fasta" && c.Format != "fastq" {
		return fmt.Errorf("unrecognized read format %q: must be fasta or fastq", c.Format)
	}

	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}

	switch c.Engine.Mode {
	case "local", "global", "semi-global":
	default:
		return fmt.Errorf("unrecognized alignment mode %q: must be local, global or semi-global", c.Engine.Mode)
	}

	return nil
}
