// Package main provides the sigtune CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "sigtune",
		Short: "Tune network scoring parameters",
		Long: `Sigtune inspects and updates the runtime-tunable parameters used for
connection scoring: RSSI thresholds per band, traffic-rate thresholds,
and candidate scoring bonuses.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newRenderCmd(),
		newCheckCmd(),
		newApplyCmd(),
		newSanitizeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
