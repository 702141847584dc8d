package config

import (
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Windows:     WindowConfig{Length: 2000, Overlap: 500},
		Stitch:      StitchConfig{TrimMargin: 200, MergeMargin: 300},
		Engine:      EngineConfig{Path: "spoa", Match: 5, Mismatch: -3, GapOpen: -5, GapExtend: -2, Mode: "semi-global"},
		Format:      "fasta",
		Parallelism: 4,
		Jobs:        1,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			"valid",
			func(c *Config) {},
			"",
		},
		{
			"overlap equal to length",
			func(c *Config) { c.Windows.Overlap = c.Windows.Length },
			"window length",
		},
		{
			"unknown format",
			func(c *Config) { c.Format = "sam" },
			"unrecognized read format",
		},
		{
			"zero parallelism",
			func(c *Config) { c.Parallelism = 0 },
			"parallelism",
		},
		{
			"zero jobs",
			func(c *Config) { c.Jobs = 0 },
			"jobs",
		},
		{
			"unknown alignment mode",
			func(c *Config) { c.Engine.Mode = "banded" },
			"alignment mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)

			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Config.Validate() = %v, want nil", err)
				}
				return
			}

			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Config.Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
