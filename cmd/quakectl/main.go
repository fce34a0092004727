package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "quakectl",
		Short:        "Inspect earthquake overlay colors and build snapshots",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newColorCmd())
	rootCmd.AddCommand(newLegendCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	return rootCmd
}
