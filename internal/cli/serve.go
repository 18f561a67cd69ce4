package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxoun/tg-bot-msc/internal/api/handlers"
	"github.com/maxoun/tg-bot-msc/internal/config"
	"github.com/maxoun/tg-bot-msc/internal/jobs"
	"github.com/maxoun/tg-bot-msc/internal/server"
	"github.com/maxoun/tg-bot-msc/internal/telemetry"
)

// ServeCmd returns the HTTP server command.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Build the pipeline and serve the question answering API on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("scrape", false, "Re-scrape the program pages before starting")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	shutdownTelemetry := initTelemetry(cfg)
	defer shutdownTelemetry()

	applyPortFlag(cmd, cfg)

	if scrape, _ := cmd.Flags().GetBool("scrape"); scrape {
		if err := refreshCorpus(ctx, cfg); err != nil {
			return fmt.Errorf("failed to refresh corpus: %w", err)
		}
	}

	pipeline, err := buildPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	log.Printf("pipeline ready with %d chunks", pipeline.ChunkCount())

	holder := newPipelineHolder(pipeline)

	var refreshWorker *jobs.Worker
	if cfg.RefreshInterval > 0 {
		refreshWorker = jobs.NewWorker(&corpusRefresher{cfg: cfg, holder: holder}, cfg.RefreshInterval)
		go refreshWorker.Start(ctx)
	}

	router := server.NewRouter(server.RouterConfig{
		AskHandler: handlers.NewAskHandler(holder),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if refreshWorker != nil {
		refreshWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// applyPortFlag lets an explicitly passed --port win over the
// environment, including when it equals the flag default.
func applyPortFlag(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}
}

// initTelemetry wires Sentry from the configuration and returns the
// flush function. Returns a no-op when no DSN is configured.
func initTelemetry(cfg *config.Config) func() {
	if cfg.SentryDSN == "" {
		return func() {}
	}

	// Default to 10% sampling in production, 100% in development
	sampleRate := 0.1
	if cfg.Environment == "development" {
		sampleRate = 1.0
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: sampleRate,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Printf("telemetry init failed (continuing without tracing): %v", err)
		return func() {}
	}
	return shutdown
}
