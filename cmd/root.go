package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel       string // Log verbosity level
	costModelsPath string // YAML file with cost models; empty uses the built-ins
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "xbarcost",
	Short: "Time and energy accounting for crossbar simulator traces",
	Long: "Reduces crossbar simulator traces to time and energy totals under an explicit cost model, " +
		"and compares systems across datasets against a reference design.",
	SilenceUsage: true,
}

// setupLogging applies the --log flag.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&costModelsPath, "cost-models", "", "YAML file defining cost models (default: built-in presets)")

	rootCmd.AddCommand(accumulateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(modelsCmd)
}
