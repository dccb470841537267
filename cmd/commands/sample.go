package commands

// Command to print the synthetic fallback dataset as JSON
// Same seed and year range as the analysis uses, without touching the network

import (
	"encoding/json"
	"fmt"
	"os"

	"co2-emissions/internal/features/datasource"
	"co2-emissions/internal/infra/config"

	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the synthetic sample dataset as JSON",
		RunE:  runSample,
	}
	cmd.Flags().String("out", "", "Output file (default stdout)")
	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	records := datasource.NewSourceWithFetcher(cfg, nil).Synthetic()
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sample dataset: %w", err)
	}
	data = append(data, '\n')

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write sample dataset: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", len(records), out)
	return nil
}
