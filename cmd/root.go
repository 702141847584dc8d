// Package cmd is for command line interactions with the spectrassembler application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "spectrassembler",
	Short: `Generate contig consensus sequences from overlapping, noisy reads.
Each connected component of reads is aligned in small overlapping windows
and the window consensuses are merged into one sequence per contig`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
