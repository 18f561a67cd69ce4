package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxoun/tg-bot-msc/internal/config"
	"github.com/maxoun/tg-bot-msc/internal/domain"
	"github.com/maxoun/tg-bot-msc/internal/rag"
	"github.com/maxoun/tg-bot-msc/internal/testutil"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		expected string
	}{
		{"explicit model wins", config.Config{ModelName: "Qwen/Qwen3-8B-AWQ", OpenAIAPIKey: "sk-x"}, "Qwen/Qwen3-8B-AWQ"},
		{"hosted default with key", config.Config{ModelName: "gpt-3.5-turbo", OpenAIAPIKey: "sk-x"}, "gpt-3.5-turbo"},
		{"local fallback without key", config.Config{ModelName: "gpt-3.5-turbo"}, "Qwen/Qwen3-8B-AWQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveModel(&tt.cfg))
		})
	}
}

func TestPipelineHolder_Swap(t *testing.T) {
	ctx := context.Background()
	embedder := &testutil.StubEmbedder{}
	generator := &testutil.StubGenerator{Answer: "ok"}

	first, err := rag.New(ctx, []domain.Document{{Content: "один документ", Source: "a"}}, embedder, generator, rag.DefaultOptions())
	require.NoError(t, err)

	holder := newPipelineHolder(first)
	assert.Equal(t, first.ChunkCount(), holder.ChunkCount())

	second, err := rag.New(ctx, []domain.Document{
		{Content: "один документ", Source: "a"},
		{Content: "второй документ", Source: "b"},
	}, embedder, generator, rag.DefaultOptions())
	require.NoError(t, err)

	holder.current.Store(second)
	assert.Equal(t, second.ChunkCount(), holder.ChunkCount())

	record, err := holder.Ask(ctx, "что это?")
	require.NoError(t, err)
	assert.Equal(t, "ok", record.Answer)
}
