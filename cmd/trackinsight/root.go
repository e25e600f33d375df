package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for TrackInsight.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trackinsight",
		Short: "Privacy analytics for browser tracking events",
		Long: `TrackInsight turns raw tracking-detection events into privacy insight.
It computes a 0-100 privacy score per site, detects cross-site tracking and
fingerprinting patterns, flags anomalous tracking days, and compares sites
against category benchmarks, your own history, and peer sites.

Events are ingested from the browser detection layer with 'ingest' and
analyzed on demand with 'analyze', or continuously with 'watch'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
