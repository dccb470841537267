package commands

// Root command for Cobra CLI
// Running the binary without a subcommand is the same as "analyze"

import (
	"co2-emissions/internal/infra/config"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree; every call returns fresh flag state.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "co2-emissions",
		Short: "CO2 Emissions Analysis - World Bank per-capita CO2 data summarized into charts",
		Long: `CO2 Emissions Analysis fetches per-capita CO2 emissions from the World Bank
indicator API (falling back to a deterministic synthetic dataset), prints summary
statistics and renders five PNG charts.`,
		Version:       "1.0.0",
		RunE:          runAnalyze,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.AddFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newSampleCmd())
	return rootCmd
}

func Execute() error {
	return newRootCmd().Execute()
}
