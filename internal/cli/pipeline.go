package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/maxoun/tg-bot-msc/internal/config"
	"github.com/maxoun/tg-bot-msc/internal/ingest"
	"github.com/maxoun/tg-bot-msc/internal/openai"
	"github.com/maxoun/tg-bot-msc/internal/rag"
)

// fallbackModel is used when no OpenAI API key is configured and the
// requests go to a local vLLM instance instead.
const fallbackModel = "Qwen/Qwen3-8B-AWQ"

// resolveModel picks the completion model: an explicit name wins, then
// the hosted default when an API key is present, then the local model.
func resolveModel(cfg *config.Config) string {
	if cfg.ModelName != "" && cfg.ModelName != "gpt-3.5-turbo" {
		return cfg.ModelName
	}
	if cfg.OpenAIAPIKey != "" {
		return "gpt-3.5-turbo"
	}
	return fallbackModel
}

// refreshCorpus scrapes the program pages, saves programs.json and
// downloads study-plan PDFs. Pages that fail to parse are skipped.
func refreshCorpus(ctx context.Context, cfg *config.Config) error {
	scraper := ingest.NewScraper(ingest.DefaultBaseURL, cfg.PDFDir)

	programs, err := scraper.ScrapeAll(ctx, ingest.DefaultProgramURLs)
	if err != nil {
		return err
	}
	if len(programs) == 0 {
		return fmt.Errorf("no program pages could be scraped")
	}

	if err := ingest.SavePrograms(programs, cfg.ProgramsJSON); err != nil {
		return err
	}
	log.Printf("scraped %d programs into %s", len(programs), cfg.ProgramsJSON)
	return nil
}

// buildPipeline loads the corpus and assembles the full pipeline from
// the configuration.
func buildPipeline(ctx context.Context, cfg *config.Config) (*rag.Service, error) {
	docs, err := ingest.LoadCorpus(cfg.ProgramsJSON, cfg.PDFDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		log.Printf("warning: corpus is empty, answers will rely on the model alone")
	}

	embedder := openai.NewEmbedder(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIAPIBase,
		Model:   cfg.EmbedModel,
	})
	generator := openai.NewGenerator(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIAPIBase,
		Model:   resolveModel(cfg),
	})

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = rag.PersonaPrompt(cfg.Refusal)
	}

	opts := rag.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TopK:         cfg.TopKRetrieval,
		MinScore:     cfg.MinScore,
		SystemPrompt: systemPrompt,
		Sampling:     cfg.Sampling(),
	}

	return rag.New(ctx, docs, embedder, generator, opts)
}

// askOverrides carries the per-invocation pipeline flags of the demo
// ask command.
type askOverrides struct {
	chunkSize    int
	chunkOverlap int
	topK         int
	minScore     float32
}

func buildPipelineWithOverrides(ctx context.Context, cfg *config.Config, ov askOverrides) (*rag.Service, error) {
	cfg.ChunkSize = ov.chunkSize
	cfg.ChunkOverlap = ov.chunkOverlap
	cfg.TopKRetrieval = ov.topK
	cfg.MinScore = ov.minScore
	return buildPipeline(ctx, cfg)
}
