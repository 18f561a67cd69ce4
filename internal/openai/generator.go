package openai

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

// Generator sends message sequences to an OpenAI-compatible
// chat-completions endpoint. Sampling parameters the protocol does not
// model natively (top_k, the thinking toggle, anything in Extra) are
// injected straight into the request body, which vLLM-style servers
// read as extra fields.
type Generator struct {
	client openai.Client
	model  string
}

// GeneratorOption customizes the underlying HTTP client, mainly for tests.
type GeneratorOption func(*[]option.RequestOption)

// WithHTTPClient routes requests through c.
func WithHTTPClient(c *http.Client) GeneratorOption {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithHTTPClient(c))
	}
}

// NewGenerator creates a Generator for the configured backend.
func NewGenerator(cfg Config, optFns ...GeneratorOption) *Generator {
	// Failures surface to the caller; the pipeline never retries them.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Generator{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Complete sends messages with the given sampling parameters and returns
// the raw answer text. Backend errors come back as GENERATION_FAILURE;
// the core never retries them.
func (g *Generator) Complete(ctx context.Context, messages []domain.Message, sampling domain.SamplingConfig) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(g.model),
		Messages: toChatMessages(messages),
	}
	if sampling.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(sampling.MaxTokens))
	}
	if sampling.Temperature > 0 {
		params.Temperature = openai.Float(float64(sampling.Temperature))
	}
	if sampling.TopP > 0 {
		params.TopP = openai.Float(float64(sampling.TopP))
	}
	if sampling.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(float64(sampling.PresencePenalty))
	}

	var opts []option.RequestOption
	if sampling.TopK > 0 {
		opts = append(opts, option.WithJSONSet("top_k", sampling.TopK))
	}
	opts = append(opts, option.WithJSONSet("chat_template_kwargs", map[string]any{
		"enable_thinking": sampling.EnableThinking,
	}))
	for key, value := range sampling.Extra {
		opts = append(opts, option.WithJSONSet(key, value))
	}

	resp, err := g.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return "", domain.NewGenerationFailure(err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.NewGenerationFailure(errNoChoices)
	}
	return resp.Choices[0].Message.Content, nil
}

var errNoChoices = errors.New("completion returned no choices")

func toChatMessages(messages []domain.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
