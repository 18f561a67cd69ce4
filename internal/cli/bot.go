package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maxoun/tg-bot-msc/internal/bot"
	"github.com/maxoun/tg-bot-msc/internal/config"
	"github.com/maxoun/tg-bot-msc/internal/jobs"
)

// BotCmd returns the Telegram bot command.
func BotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Long:  "Scrape the program pages, build the pipeline and answer questions over Telegram",
		RunE:  runBot,
	}

	cmd.Flags().Bool("no-scrape", false, "Skip re-scraping the program pages on startup")

	return cmd
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasTelegram() {
		return fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	shutdownTelemetry := initTelemetry(cfg)
	defer shutdownTelemetry()

	if noScrape, _ := cmd.Flags().GetBool("no-scrape"); !noScrape {
		if err := refreshCorpus(ctx, cfg); err != nil {
			log.Printf("warning: corpus refresh failed, using existing data: %v", err)
		}
	}

	pipeline, err := buildPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	log.Printf("pipeline ready with %d chunks", pipeline.ChunkCount())

	holder := newPipelineHolder(pipeline)

	if cfg.RefreshInterval > 0 {
		refreshWorker := jobs.NewWorker(&corpusRefresher{cfg: cfg, holder: holder}, cfg.RefreshInterval)
		go refreshWorker.Start(ctx)
	}

	b, err := bot.New(cfg.TelegramToken, holder)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Println("bot stopped")
	return nil
}
