package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

/* bridgectl - operator tool for a fleet of bridge processes
 * Usage: bridgectl sessions | webhooks validate [file] | webhooks match | secret generate
 * Exit codes: 0 = success, 1 = failure
 */

var configFile string

var rootCmd = &cobra.Command{
	Use:           "bridgectl",
	Short:         "Inspect sessions and webhook subscriptions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./bridge.yaml when present)")
	rootCmd.AddCommand(sessionsCmd(), webhooksCmd(), secretCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
