// Package openai adapts OpenAI-compatible backends to the pipeline's
// embedding and generation capability interfaces. Both adapters talk to
// any server speaking the OpenAI wire protocol (hosted API, vLLM, TEI),
// selected by base URL.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the sentence-embedding model the default
	// backend serves.
	DefaultEmbeddingModel = "intfloat/multilingual-e5-large-instruct"
	// DefaultBaseURL points at a locally served OpenAI-compatible backend.
	DefaultBaseURL = "http://localhost:8000/v1"
)

// ErrNoEmbeddingData is returned when the backend responds without
// embedding vectors.
var ErrNoEmbeddingData = errors.New("no embedding data returned")

// embeddingAPI is the slice of the OpenAI client the embedder needs.
type embeddingAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Config selects the backend for both adapters in this package.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Embedder generates dense vectors through an OpenAI-compatible
// embeddings endpoint. The vector dimension is whatever the model
// returns; it is discovered by the index at build time, not configured.
type Embedder struct {
	api   embeddingAPI
	model openai.EmbeddingModel
}

// NewEmbedder creates an Embedder for the configured backend.
func NewEmbedder(cfg Config) *Embedder {
	if cfg.Model == "" {
		cfg.Model = DefaultEmbeddingModel
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Embedder{
		api:   openai.NewClientWithConfig(clientCfg),
		model: openai.EmbeddingModel(cfg.Model),
	}
}

// Embed returns one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		if len(resp.Data) == 0 {
			return nil, ErrNoEmbeddingData
		}
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		// The API echoes input positions; respect them rather than
		// assuming response order.
		pos := d.Index
		if pos < 0 || pos >= len(vectors) {
			pos = i
		}
		vectors[pos] = d.Embedding
	}
	return vectors, nil
}
