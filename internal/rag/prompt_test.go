package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

func TestBuildPrompt_Order(t *testing.T) {
	retrieved := []domain.RetrievalResult{
		{Chunk: domain.Chunk{Content: "best match", Source: "a"}, Score: 0.9},
		{Chunk: domain.Chunk{Content: "second match", Source: "b"}, Score: 0.5},
	}

	messages := BuildPrompt("persona", retrieved, "the question")
	require.Len(t, messages, 4)

	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Equal(t, "persona", messages[0].Content)
	assert.Equal(t, domain.RoleSystem, messages[1].Role)
	assert.Equal(t, "best match", messages[1].Content)
	assert.Equal(t, domain.RoleSystem, messages[2].Role)
	assert.Equal(t, "second match", messages[2].Content)
	assert.Equal(t, domain.RoleUser, messages[3].Role)
	assert.Equal(t, "the question", messages[3].Content)
}

func TestBuildPrompt_NoContext(t *testing.T) {
	messages := BuildPrompt("persona", nil, "q")
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Equal(t, domain.RoleUser, messages[1].Role)
}

func TestPersonaPrompt_Refusal(t *testing.T) {
	assert.Contains(t, PersonaPrompt(""), DefaultRefusal)

	custom := PersonaPrompt("Спросите что-нибудь про ИТМО.")
	assert.Contains(t, custom, "Спросите что-нибудь про ИТМО.")
	assert.False(t, strings.Contains(custom, DefaultRefusal))
}
