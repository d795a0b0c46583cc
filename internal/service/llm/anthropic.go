package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"

	"github.com/sirupsen/logrus"
)

const anthropicVersion = "2023-06-01"

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// AnthropicAdapter implements Adapter using direct Messages API calls
type AnthropicAdapter struct {
	config     config.ProviderConfig
	httpClient *http.Client
}

// NewAnthropicAdapter creates an Anthropic adapter. An API key is required.
func NewAnthropicAdapter(cfg config.ProviderConfig) (*AnthropicAdapter, error) {
	if cfg.APIKey == "" {
		logger.Log.Warn("ANTHROPIC_API_KEY not found in environment variables")
		return nil, errors.New("ANTHROPIC_API_KEY is required for Anthropic adapter")
	}

	logger.Log.WithField("model", cfg.Model).Info("Anthropic adapter initialized")

	return &AnthropicAdapter{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Chat sends a Messages API request with the configured system prompt
func (a *AnthropicAdapter) Chat(ctx context.Context, prompt string, opts ChatOptions) (*ChatResponse, error) {
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

	logger.Log.WithFields(logrus.Fields{
		"model":      model,
		"max_tokens": maxTokens,
	}).Debug("Calling Anthropic API")

	parsed, err := a.send(ctx, anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
		System:      a.config.SystemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, err
	}

	// Only a leading text block is taken
	var content string
	if len(parsed.Content) > 0 && parsed.Content[0].Type == "text" {
		content = parsed.Content[0].Text
	}

	return &ChatResponse{
		Content: content,
		Usage: Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
		Model: model,
	}, nil
}

func (a *AnthropicAdapter) send(ctx context.Context, reqBody anthropicRequest) (*anthropicResponse, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	endpoint := strings.TrimRight(a.config.BaseURL, "/") + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, apperr.FromStatus(config.ProviderAnthropic, 0, fmt.Errorf("error sending request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.FromStatus(config.ProviderAnthropic, 0, fmt.Errorf("error reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		logger.Log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   logger.Truncate(string(body), 500),
		}).Error("Anthropic API returned error status")
		return nil, apperr.FromStatus(config.ProviderAnthropic, resp.StatusCode,
			fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.FromStatus(config.ProviderAnthropic, 0, fmt.Errorf("error decoding response: %w", err))
	}
	if parsed.Error != nil {
		return nil, apperr.FromStatus(config.ProviderAnthropic, 0, fmt.Errorf("API error: %s", parsed.Error.Message))
	}

	return &parsed, nil
}

// GetAvailableModels returns the Claude models this adapter prices
func (a *AnthropicAdapter) GetAvailableModels() []string {
	return []string{
		"claude-3-5-sonnet-20241022",
		"claude-3-5-sonnet-20240620",
		"claude-3-opus-20240229",
		"claude-3-sonnet-20240229",
		"claude-3-haiku-20240307",
	}
}

// GetDefaultModel returns the configured model
func (a *AnthropicAdapter) GetDefaultModel() string {
	return a.config.Model
}

// CalculateCost prices usage per 1K tokens
func (a *AnthropicAdapter) CalculateCost(usage Usage, model string) float64 {
	return anthropicPricing.Cost(usage, model)
}

// GetProviderName returns "anthropic"
func (a *AnthropicAdapter) GetProviderName() string {
	return config.ProviderAnthropic
}

// TestConnection sends a 10-token request against the default model
func (a *AnthropicAdapter) TestConnection(ctx context.Context) bool {
	_, err := a.send(ctx, anthropicRequest{
		Model:     a.config.Model,
		MaxTokens: 10,
		System:    a.config.SystemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: "Test"}},
	})
	if err != nil {
		logger.Log.WithError(err).Error("Anthropic API connection test failed")
		return false
	}
	return true
}
