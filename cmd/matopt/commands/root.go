// Package commands wires the matopt CLI: optimizer runs, baseline
// comparisons, and convergence plots for the course benchmarks.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

var rootCmd = &cobra.Command{
	Use:   "matopt",
	Short: "matopt - Bayesian optimization for materials discovery benchmarks",
	Long: `matopt runs sample-efficient Bayesian optimization against the course's
synthesis benchmarks and compares it with a uniform random-search baseline.

Runs are deterministic for a fixed seed, making results reproducible
across machines.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Errors are printed by the commands
// themselves, so Cobra's own reporting is silenced.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
