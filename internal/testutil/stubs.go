// Package testutil provides deterministic pipeline test doubles shared
// across packages.
package testutil

import (
	"context"
	"sync"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

// StubEmbedder produces deterministic 8-dimensional vectors derived from
// rune statistics of the input. Equal texts always embed equally, so
// index round-trip properties hold without a real model.
type StubEmbedder struct {
	// Err, when set, is returned by every Embed call.
	Err error
}

func (e *StubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = embedText(text)
	}
	return vectors, nil
}

func embedText(text string) []float32 {
	v := make([]float32, 8)
	for i, r := range text {
		v[(i+int(r))%8] += float32(r%97) + 1
	}
	// Bias avoids the zero vector for empty input.
	v[0] += 1
	return v
}

// StubGenerator records every Complete call and replies with a fixed
// answer.
type StubGenerator struct {
	Answer string
	Err    error

	mu    sync.Mutex
	calls [][]domain.Message
}

func (g *StubGenerator) Complete(_ context.Context, messages []domain.Message, _ domain.SamplingConfig) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	copied := make([]domain.Message, len(messages))
	copy(copied, messages)
	g.calls = append(g.calls, copied)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Answer, nil
}

// Calls returns the message sequences of all Complete invocations so far.
func (g *StubGenerator) Calls() [][]domain.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([][]domain.Message, len(g.calls))
	copy(out, g.calls)
	return out
}
