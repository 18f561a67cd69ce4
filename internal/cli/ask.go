package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxoun/tg-bot-msc/internal/config"
)

// AskCmd returns the one-shot question command.
func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question about the master's programs",
		Long:  "Build the pipeline, answer one question and print the answer with its sources",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().Bool("scrape", false, "Re-scrape the program pages before answering")
	cmd.Flags().Int("chunk-size", 1000, "Chunk size in characters")
	cmd.Flags().Int("chunk-overlap", 100, "Chunk overlap in characters")
	cmd.Flags().Int("top-k", 5, "Number of chunks to retrieve")
	cmd.Flags().Float32("min-score", 0.0, "Minimum similarity score for a chunk to be used")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if scrape, _ := cmd.Flags().GetBool("scrape"); scrape {
		if err := refreshCorpus(ctx, cfg); err != nil {
			return fmt.Errorf("failed to refresh corpus: %w", err)
		}
	}

	ov := askOverrides{}
	ov.chunkSize, _ = cmd.Flags().GetInt("chunk-size")
	ov.chunkOverlap, _ = cmd.Flags().GetInt("chunk-overlap")
	ov.topK, _ = cmd.Flags().GetInt("top-k")
	ov.minScore, _ = cmd.Flags().GetFloat32("min-score")

	pipeline, err := buildPipelineWithOverrides(ctx, cfg, ov)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	record, err := pipeline.Ask(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "=== Ответ ===\n%s\n", record.Answer)
	fmt.Fprintln(cmd.OutOrStdout(), "\n=== Источники ===")
	for _, src := range record.Sources {
		fmt.Fprintf(cmd.OutOrStdout(), " • %s\n", src)
	}

	return nil
}
