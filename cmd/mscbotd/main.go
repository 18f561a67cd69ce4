package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxoun/tg-bot-msc/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mscbotd",
		Short: "ITMO master's programs bot daemon",
		Long:  "Daemon for running the Telegram bot and the HTTP question answering API",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(cli.BotCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "bot")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
