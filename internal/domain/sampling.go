package domain

// SamplingConfig carries the generation parameters for a completion call.
// Every field is independently defaulted and independently overridable.
// Extra is an opaque bag for model-specific switches that the completion
// backend understands but the core does not interpret.
type SamplingConfig struct {
	MaxTokens       int
	Temperature     float32
	TopP            float32
	TopK            int
	PresencePenalty float32
	EnableThinking  bool
	Extra           map[string]any
}

// DefaultSampling returns the sampling parameters the bot runs with.
func DefaultSampling() SamplingConfig {
	return SamplingConfig{
		MaxTokens:       4000,
		Temperature:     0.7,
		TopP:            0.8,
		TopK:            20,
		PresencePenalty: 1.5,
		EnableThinking:  false,
	}
}
