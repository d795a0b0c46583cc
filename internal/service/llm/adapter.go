package llm

import "context"

// Usage is the token accounting reported by a provider call
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ChatOptions overrides adapter defaults for a single call.
// Zero values fall back to the adapter's configured defaults.
type ChatOptions struct {
	Model       string
	Temperature *float64
	MaxTokens   int
}

// ChatResponse is a raw completion and the model that produced it
type ChatResponse struct {
	Content string
	Usage   Usage
	Model   string
}

// Adapter defines the interface every LLM vendor integration implements
type Adapter interface {
	// Chat sends the configured system prompt plus prompt as a single completion request
	Chat(ctx context.Context, prompt string, opts ChatOptions) (*ChatResponse, error)

	// GetAvailableModels returns the models this provider can serve
	GetAvailableModels() []string

	// GetDefaultModel returns the configured default model
	GetDefaultModel() string

	// CalculateCost prices usage for a model, using the provider's fallback price for unknown models
	CalculateCost(usage Usage, model string) float64

	// GetProviderName returns the lowercase provider identifier
	GetProviderName() string
}

// ConnectionTester is implemented by adapters that can verify credentials with a minimal request
type ConnectionTester interface {
	TestConnection(ctx context.Context) bool
}

// IsAvailable reports whether model is in the adapter's available list
func IsAvailable(a Adapter, model string) bool {
	for _, m := range a.GetAvailableModels() {
		if m == model {
			return true
		}
	}
	return false
}
