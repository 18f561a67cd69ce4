package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

// Config carries everything the bot, the HTTP server and the demo CLI
// need. Every pipeline parameter has a default and every one can be
// overridden through the environment (MSCBOT_-prefixed or bare names).
type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIAPIBase string `envconfig:"OPENAI_API_BASE" default:"http://localhost:8000/v1"`
	ModelName     string `envconfig:"OPENAI_MODEL_NAME" default:"gpt-3.5-turbo"`
	EmbedModel    string `envconfig:"EMBED_MODEL" default:"intfloat/multilingual-e5-large-instruct"`

	ProgramsJSON string `envconfig:"PROGRAMS_JSON" default:"data/programs.json"`
	PDFDir       string `envconfig:"PDF_DIR" default:"data/pdfs"`

	// RefreshInterval re-scrapes the corpus and rebuilds the pipeline
	// on this interval. Zero disables periodic refresh.
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"0"`

	ChunkSize     int     `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap  int     `envconfig:"CHUNK_OVERLAP" default:"100"`
	TopKRetrieval int     `envconfig:"TOP_K_RETRIEVAL" default:"5"`
	MinScore      float32 `envconfig:"MIN_SCORE" default:"0.3"`

	MaxTokens       int     `envconfig:"MAX_TOKENS" default:"4000"`
	Temperature     float32 `envconfig:"TEMPERATURE" default:"0.7"`
	TopP            float32 `envconfig:"TOP_P" default:"0.8"`
	GenTopK         int     `envconfig:"GEN_TOP_K" default:"20"`
	PresencePenalty float32 `envconfig:"PRESENCE_PENALTY" default:"1.5"`
	EnableThinking  bool    `envconfig:"ENABLE_THINKING" default:"false"`

	SystemPrompt string `envconfig:"SYSTEM_PROMPT"`
	Refusal      string `envconfig:"REFUSAL"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("MSCBOT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasTelegram() bool {
	return c.TelegramToken != ""
}

// Sampling assembles the generation parameters from the configuration.
func (c *Config) Sampling() domain.SamplingConfig {
	return domain.SamplingConfig{
		MaxTokens:       c.MaxTokens,
		Temperature:     c.Temperature,
		TopP:            c.TopP,
		TopK:            c.GenTopK,
		PresencePenalty: c.PresencePenalty,
		EnableThinking:  c.EnableThinking,
	}
}
