package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxoun/tg-bot-msc/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mscbot",
		Short: "Question answering over ITMO master's programs",
		Long: `mscbot answers questions about ITMO master's programs from the
scraped program pages and study-plan PDFs.

Environment variables:
  OPENAI_API_KEY    API key for the completion backend (optional for local vLLM)
  OPENAI_API_BASE   Backend base URL (default: http://localhost:8000/v1)`,
		Version: version,
	}

	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(cli.AskCmd())
	rootCmd.AddCommand(cli.ScrapeCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
