package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"
)

// chatCompletionAdapter talks to any OpenAI-compatible chat completions endpoint
type chatCompletionAdapter struct {
	client   openai.Client
	provider string
	config   config.ProviderConfig
	models   []string
	pricing  PriceTable
	// reportServedModel uses the model string from the response instead of the requested one
	reportServedModel bool
}

func newChatCompletionAdapter(provider string, cfg config.ProviderConfig, models []string, pricing PriceTable) chatCompletionAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return chatCompletionAdapter{
		client:   openai.NewClient(opts...),
		provider: provider,
		config:   cfg,
		models:   models,
		pricing:  pricing,
	}
}

func (a *chatCompletionAdapter) resolve(opts ChatOptions) (string, float64, int) {
	model := opts.Model
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
	return model, temperature, maxTokens
}

// Chat sends a system+user completion request
func (a *chatCompletionAdapter) Chat(ctx context.Context, prompt string, opts ChatOptions) (*ChatResponse, error) {
	model, temperature, maxTokens := a.resolve(opts)

	logger.Log.WithFields(logrus.Fields{
		"provider":    a.provider,
		"model":       model,
		"temperature": fmt.Sprintf("%.2f", temperature),
		"max_tokens":  maxTokens,
	}).Debug("Calling chat completions API")

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(a.config.SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return nil, a.classify(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, apperr.New(apperr.KindProviderRequest, nil, fmt.Sprintf("no content received from %s API", a.provider))
	}

	served := model
	if a.reportServedModel && resp.Model != "" {
		served = resp.Model
	}

	return &ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		Model: served,
	}, nil
}

func (a *chatCompletionAdapter) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apperr.FromStatus(a.provider, apiErr.StatusCode, err)
	}
	return apperr.FromStatus(a.provider, 0, err)
}

// GetAvailableModels returns the provider's model list
func (a *chatCompletionAdapter) GetAvailableModels() []string {
	out := make([]string, len(a.models))
	copy(out, a.models)
	return out
}

// GetDefaultModel returns the configured model
func (a *chatCompletionAdapter) GetDefaultModel() string {
	return a.config.Model
}

// CalculateCost prices usage against the provider table
func (a *chatCompletionAdapter) CalculateCost(usage Usage, model string) float64 {
	return a.pricing.Cost(usage, model)
}

// GetProviderName returns the provider identifier
func (a *chatCompletionAdapter) GetProviderName() string {
	return a.provider
}

// TestConnection issues a minimal completion against the default model
func (a *chatCompletionAdapter) TestConnection(ctx context.Context) bool {
	_, err := a.Chat(ctx, "Test", ChatOptions{MaxTokens: 10})
	if err != nil {
		logger.Log.WithError(err).WithField("provider", a.provider).Error("Connection test failed")
		return false
	}
	return true
}

// OpenAIAdapter implements Adapter against the OpenAI API
type OpenAIAdapter struct {
	chatCompletionAdapter
}

// NewOpenAIAdapter creates an OpenAI adapter
func NewOpenAIAdapter(cfg config.ProviderConfig) *OpenAIAdapter {
	if cfg.APIKey == "" {
		logger.Log.Warn("OPENAI_API_KEY not configured, requests will fail")
	}
	return &OpenAIAdapter{
		chatCompletionAdapter: newChatCompletionAdapter(config.ProviderOpenAI, cfg,
			[]string{"gpt-4", "gpt-4-turbo", "gpt-3.5-turbo", "gpt-3.5-turbo-16k"},
			openAIPricing),
	}
}
