package commands

// Command to run the full analysis once
// Fetch (or synthesize) -> summarize -> snapshot -> charts -> publish
// SIGINT/SIGTERM cancel the context; a pending fetch then falls back to sample data

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"co2-emissions/internal/features/charts"
	"co2-emissions/internal/features/datasource"
	"co2-emissions/internal/features/publish"
	"co2-emissions/internal/infra/config"
	"co2-emissions/internal/infra/log"
	"co2-emissions/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Fetch the dataset, print statistics and render the charts",
		RunE:  runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := log.Init(cfg.App.LogsDir, cfg.App.Verbose); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	renderer, err := charts.NewRenderer(cfg.Charts)
	if err != nil {
		return err
	}

	var publisher publish.Publisher = publish.Nop{}
	if cfg.Telegram.Enabled() {
		tg, err := publish.NewTelegramPublisher(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.APIEndpoint)
		if err != nil {
			log.LogWarn("Telegram publishing disabled", zap.Error(err))
		} else {
			publisher = tg
		}
	}

	_, err = pipeline.New(cfg, datasource.NewSource(cfg), renderer, publisher, cmd.OutOrStdout()).Run(ctx)
	return err
}
