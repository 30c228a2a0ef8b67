// Package main provides the MacroTrack command line: the API server, schema
// migrations and an offline goal calculator
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"

	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "macrotrack",
		Short: "MacroTrack nutrition and goals API",
		Long: `MacroTrack computes calorie and macronutrient goals from biometric
profiles, logs food intake against them and looks up nutrition facts.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default searches ./config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "macrotrack %s (%s)\n", Version, GitCommit)
	},
}
