package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/maxoun/tg-bot-msc/internal/domain"
	"github.com/maxoun/tg-bot-msc/internal/index"
	"github.com/maxoun/tg-bot-msc/internal/telemetry"
)

// Embedder maps texts to fixed-dimension vectors, one per input, in
// input order. The same embedder handles corpus chunks and queries.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator sends a message sequence to a chat-completion backend and
// returns the raw answer text.
type Generator interface {
	Complete(ctx context.Context, messages []domain.Message, sampling domain.SamplingConfig) (string, error)
}

// Options configures a pipeline instance. Every field has a default; the
// retrieval threshold deliberately has none baked into the service
// methods, since the two call sites (bot and demo CLI) disagree on it.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	MinScore     float32
	SystemPrompt string
	Sampling     domain.SamplingConfig
}

// DefaultOptions returns the configuration the bot runs with.
func DefaultOptions() Options {
	return Options{
		ChunkSize:    500,
		ChunkOverlap: 100,
		TopK:         5,
		MinScore:     0.3,
		SystemPrompt: PersonaPrompt(""),
		Sampling:     domain.DefaultSampling(),
	}
}

// Service is the long-lived pipeline instance. It is built once at
// startup: documents are chunked, embedded and indexed inside New, and
// from then on the chunk store and the index are read-only, so Ask is
// safe to call from any number of goroutines.
type Service struct {
	embedder  Embedder
	generator Generator
	chunks    []domain.Chunk
	index     *index.Flat
	opts      Options
}

// New builds the pipeline over docs. Chunking-parameter violations and
// embedding or index failures abort construction; there is no partial
// recovery, matching the rebuild-on-startup usage pattern.
func New(ctx context.Context, docs []domain.Document, embedder Embedder, generator Generator, opts Options) (*Service, error) {
	if opts.ChunkSize == 0 && opts.ChunkOverlap == 0 {
		def := DefaultOptions()
		opts.ChunkSize = def.ChunkSize
		opts.ChunkOverlap = def.ChunkOverlap
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = PersonaPrompt("")
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		parts, err := Chunk(doc.Content, opts.ChunkSize, opts.ChunkOverlap)
		if err != nil {
			return nil, err
		}
		for _, p := range parts {
			chunks = append(chunks, domain.Chunk{Content: p, Source: doc.Source})
		}
	}
	log.Printf("rag: split %d documents into %d chunks", len(docs), len(chunks))

	idx := index.NewFlat()
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}

		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed corpus: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
		}

		if err := idx.Build(vectors); err != nil {
			return nil, err
		}
		log.Printf("rag: built index with %d vectors (dim=%d)", idx.Len(), idx.Dimension())
	} else {
		log.Printf("rag: empty corpus, index not built")
	}

	return &Service{
		embedder:  embedder,
		generator: generator,
		chunks:    chunks,
		index:     idx,
		opts:      opts,
	}, nil
}

// ChunkCount returns the size of the chunk store.
func (s *Service) ChunkCount() int {
	return len(s.chunks)
}

// Retrieve embeds query, searches the index for the topK nearest chunks
// and keeps those scoring at least minScore. The threshold is inclusive.
// An empty result is a valid outcome, not an error.
func (s *Service) Retrieve(ctx context.Context, query string, topK int, minScore float32) ([]domain.RetrievalResult, error) {
	if s.index.Len() == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for a single query", len(vectors))
	}

	hits := s.index.Search(vectors[0], topK)

	results := make([]domain.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		if h.Score >= minScore {
			results = append(results, domain.RetrievalResult{Chunk: s.chunks[h.Row], Score: h.Score})
		}
	}
	log.Printf("rag: retrieved %d/%d chunks above threshold %.2f", len(results), len(hits), minScore)
	return results, nil
}

// Ask answers a single question: retrieve context, assemble the prompt,
// call the completion backend. Retrieval coming back empty is handled by
// generating with only the persona and the question. The returned record
// lists chunk sources in rank order with duplicates preserved.
func (s *Service) Ask(ctx context.Context, question string) (*domain.AnswerRecord, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}

	ctx, span := telemetry.StartSpan(ctx, "rag.Ask", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	retrieved, err := s.Retrieve(ctx, question, s.opts.TopK, s.opts.MinScore)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	messages := BuildPrompt(s.opts.SystemPrompt, retrieved, question)

	answer, err := s.generator.Complete(ctx, messages, s.opts.Sampling)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	sources := make([]string, 0, len(retrieved))
	for _, r := range retrieved {
		sources = append(sources, r.Chunk.Source)
	}

	return &domain.AnswerRecord{Answer: answer, Sources: sources}, nil
}
