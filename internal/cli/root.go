// Package cli provides the accordsim command-line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	scenarioPath string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "accordsim",
	Short: "Bargaining and simulation engine for maritime dispute agreements",
	Long: `accordsim scores proposed maritime-dispute agreements against modeled
stakeholder parties and simulates how an agreement holds up under
stochastic agent behavior over time.

Quick start:
  accordsim evaluate -s scenario.yaml       # Score the scenario's proposal
  accordsim simulate -s scenario.yaml       # Run one simulation
  accordsim montecarlo -s scenario.yaml     # Explore many seeds
  accordsim serve -s scenario.yaml          # Expose the HTTP API`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		// Structured text for terminals, JSON when piped.
		var handler slog.Handler
		if isatty.IsTerminal(os.Stderr.Fd()) {
			handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		} else {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		}
		slog.SetDefault(slog.New(handler))
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", "scenario.yaml", "Scenario file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}
