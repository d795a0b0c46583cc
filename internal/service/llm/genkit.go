package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai"
	"github.com/openai/openai-go"
	"github.com/sirupsen/logrus"
)

const openRouterPrefix = "openrouter/"

// OpenRouterAdapter implements Adapter using Firebase Genkit with OpenRouter via compat_oai
type OpenRouterAdapter struct {
	genkit *genkit.Genkit
	config config.ProviderConfig
}

// NewOpenRouterAdapter creates a Genkit instance configured for OpenRouter
func NewOpenRouterAdapter(cfg config.ProviderConfig) (*OpenRouterAdapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY is required for OpenRouter adapter")
	}

	g := genkit.Init(context.Background(),
		genkit.WithPlugins(&compat_oai.OpenAICompatible{
			Provider: "openrouter",
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
		}),
		genkit.WithDefaultModel(openRouterPrefix+cfg.Model),
	)

	logger.Log.WithField("default_model", cfg.Model).Info("Initialized Genkit with OpenRouter provider")

	return &OpenRouterAdapter{genkit: g, config: cfg}, nil
}

// Chat sends the system prompt and user prompt through Genkit
func (a *OpenRouterAdapter) Chat(ctx context.Context, prompt string, opts ChatOptions) (*ChatResponse, error) {
	model := strings.TrimPrefix(opts.Model, openRouterPrefix)
	if model == "" {
		model = a.config.Model
	}
	temperature := a.config.Temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = a.config.MaxTokens
	}

	logger.Log.WithFields(logrus.Fields{
		"model":       model,
		"temperature": fmt.Sprintf("%.2f", temperature),
	}).Debug("Calling Genkit")

	messages := []*ai.Message{
		{Role: ai.RoleSystem, Content: []*ai.Part{ai.NewTextPart(a.config.SystemPrompt)}},
		{Role: ai.RoleUser, Content: []*ai.Part{ai.NewTextPart(prompt)}},
	}

	resp, err := genkit.Generate(ctx, a.genkit,
		ai.WithMessages(messages...),
		ai.WithModelName(openRouterPrefix+model),
		ai.WithConfig(&openai.ChatCompletionNewParams{
			Temperature: openai.Float(temperature),
			MaxTokens:   openai.Int(int64(maxTokens)),
		}),
	)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, apperr.FromStatus(config.ProviderOpenRouter, apiErr.StatusCode, err)
		}
		return nil, apperr.FromStatus(config.ProviderOpenRouter, 0, fmt.Errorf("genkit generation failed: %w", err))
	}

	var usage Usage
	if resp.Usage != nil {
		usage = Usage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}

	return &ChatResponse{Content: resp.Text(), Usage: usage, Model: model}, nil
}

// GetAvailableModels returns the OpenRouter models with known pricing
func (a *OpenRouterAdapter) GetAvailableModels() []string {
	return []string{
		"meta-llama/llama-3.3-70b-instruct",
		"meta-llama/llama-3.3-8b-instruct:free",
		"mistralai/mistral-small-3.2-24b-instruct",
		"openai/gpt-4o-mini",
	}
}

// GetDefaultModel returns the configured model
func (a *OpenRouterAdapter) GetDefaultModel() string {
	return a.config.Model
}

// CalculateCost prices usage per 1M tokens
func (a *OpenRouterAdapter) CalculateCost(usage Usage, model string) float64 {
	return openRouterPricing.Cost(usage, strings.TrimPrefix(model, openRouterPrefix))
}

// GetProviderName returns "openrouter"
func (a *OpenRouterAdapter) GetProviderName() string {
	return config.ProviderOpenRouter
}

// TestConnection sends a short request to the default model
func (a *OpenRouterAdapter) TestConnection(ctx context.Context) bool {
	if _, err := a.Chat(ctx, "Test", ChatOptions{MaxTokens: 10}); err != nil {
		logger.Log.WithError(err).Error("OpenRouter connection test failed")
		return false
	}
	return true
}
