package llm

import (
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
)

// GroqAdapter implements Adapter against Groq's OpenAI-compatible endpoint
type GroqAdapter struct {
	chatCompletionAdapter
}

// NewGroqAdapter creates a Groq adapter. The served model reported by Groq is kept.
func NewGroqAdapter(cfg config.ProviderConfig) *GroqAdapter {
	if cfg.APIKey == "" {
		logger.Log.Warn("GROQ_API_KEY not configured, requests will fail")
	}
	a := newChatCompletionAdapter(config.ProviderGroq, cfg,
		[]string{
			"llama-3.3-70b-versatile",
			"llama-3.3-70b-specdec",
			"llama-3.1-8b-instant",
			"gemma2-9b-it",
			"qwen3-32b",
			"deepseek-r1-distill-llama-70b",
			"moonshotai/kimi-k2-instruct",
		},
		groqPricing)
	a.reportServedModel = true
	return &GroqAdapter{chatCompletionAdapter: a}
}
