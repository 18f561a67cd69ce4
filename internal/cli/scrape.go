package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxoun/tg-bot-msc/internal/config"
)

// ScrapeCmd returns the corpus refresh command.
func ScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the program pages and refresh the local corpus",
		Long:  "Fetch the program pages, save programs.json and download the study-plan PDFs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return refreshCorpus(context.Background(), cfg)
		},
	}
}
