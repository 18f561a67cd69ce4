package cli

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/maxoun/tg-bot-msc/internal/config"
	"github.com/maxoun/tg-bot-msc/internal/domain"
	"github.com/maxoun/tg-bot-msc/internal/rag"
	"github.com/maxoun/tg-bot-msc/internal/telemetry"
)

// pipelineHolder makes the pipeline swappable while the daemon keeps
// serving. Readers always see a fully built pipeline.
type pipelineHolder struct {
	current atomic.Pointer[rag.Service]
}

func newPipelineHolder(p *rag.Service) *pipelineHolder {
	h := &pipelineHolder{}
	h.current.Store(p)
	return h
}

func (h *pipelineHolder) Ask(ctx context.Context, question string) (*domain.AnswerRecord, error) {
	return h.current.Load().Ask(ctx, question)
}

func (h *pipelineHolder) ChunkCount() int {
	return h.current.Load().ChunkCount()
}

// corpusRefresher re-scrapes the program pages, rebuilds the pipeline
// and swaps it in. A failed refresh leaves the old pipeline serving.
type corpusRefresher struct {
	cfg    *config.Config
	holder *pipelineHolder
}

func (r *corpusRefresher) Run(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "jobs.RefreshCorpus", telemetry.SpanAttributes{
		Source:    r.cfg.ProgramsJSON,
		Operation: "refresh",
	})
	defer span.End()

	if err := refreshCorpus(ctx, r.cfg); err != nil {
		span.SetError(err)
		return fmt.Errorf("corpus refresh failed: %w", err)
	}

	pipeline, err := buildPipeline(ctx, r.cfg)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("pipeline rebuild failed: %w", err)
	}

	r.holder.current.Store(pipeline)
	log.Printf("pipeline refreshed, now %d chunks", pipeline.ChunkCount())
	return nil
}
