// Package main implements the assessd CLI for running architecture
// maturity assessments from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the optional YAML configuration file
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "assessd",
	Short: "Deterministic architecture maturity assessment",
	Long: `assessd assembles heterogeneous evidence documents into a unified
corpus, evaluates it against per-category practice definitions, and emits a
reproducible maturity score per category with deduplicated, conflict-aware
recommendations.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML configuration file")
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(categoriesCmd)
}
