package llm

import (
	"testing"

	"github.com/happychuks/linkedin-sequence-gen/internal/config"
)

func TestPriceTableCost(t *testing.T) {
	tests := []struct {
		name  string
		table PriceTable
		model string
		usage Usage
		want  float64
	}{
		{"openai gpt-4 per 1K", openAIPricing, "gpt-4", Usage{PromptTokens: 1000, CompletionTokens: 500}, 0.06},
		{"openai unknown falls back to gpt-3.5-turbo", openAIPricing, "gpt-9", Usage{PromptTokens: 1000, CompletionTokens: 1000}, 0.0035},
		{"anthropic haiku", anthropicPricing, "claude-3-haiku-20240307", Usage{PromptTokens: 2000, CompletionTokens: 1000}, 0.00175},
		{"anthropic unknown falls back to sonnet", anthropicPricing, "claude-2", Usage{PromptTokens: 1000, CompletionTokens: 1000}, 0.018},
		{"groq per 1M", groqPricing, "llama-3.3-70b-versatile", Usage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000}, 1.38},
		{"groq unknown falls back to 8b instant", groqPricing, "mixtral", Usage{PromptTokens: 1_000_000}, 0.05},
		{"groq rounds to 6 decimals", groqPricing, "llama-3.1-8b-instant", Usage{PromptTokens: 1, CompletionTokens: 1}, 0},
		{"openrouter free model", openRouterPricing, "meta-llama/llama-3.3-8b-instruct:free", Usage{PromptTokens: 5000, CompletionTokens: 5000}, 0},
		{"zero usage", openAIPricing, "gpt-4", Usage{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.Cost(tt.usage, tt.model); got != tt.want {
				t.Errorf("Cost() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdaptersPriceTheirOwnModels(t *testing.T) {
	cfg := config.ProviderConfig{APIKey: "k", Model: "m", BaseURL: "http://localhost/"}
	anthropic, err := NewAnthropicAdapter(cfg)
	if err != nil {
		t.Fatalf("NewAnthropicAdapter() error = %v", err)
	}

	for _, a := range []Adapter{NewOpenAIAdapter(cfg), NewGroqAdapter(cfg), anthropic} {
		for _, m := range a.GetAvailableModels() {
			if !IsAvailable(a, m) {
				t.Errorf("%s: IsAvailable(%q) = false", a.GetProviderName(), m)
			}
			usage := Usage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000}
			if cost := a.CalculateCost(usage, m); cost <= 0 {
				t.Errorf("%s: CalculateCost(%q) = %v, want > 0", a.GetProviderName(), m, cost)
			}
		}
	}
}
