package llm

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"

	"github.com/sirupsen/logrus"
)

// Builder constructs an adapter from provider settings
type Builder func(cfg config.ProviderConfig) (Adapter, error)

// ProviderInfo describes the active adapter
type ProviderInfo struct {
	Provider        string   `json:"provider"`
	DefaultModel    string   `json:"defaultModel"`
	AvailableModels []string `json:"availableModels"`
}

// DefaultBuilders maps every supported provider to its constructor
func DefaultBuilders() map[string]Builder {
	return map[string]Builder{
		config.ProviderOpenAI: func(cfg config.ProviderConfig) (Adapter, error) {
			return NewOpenAIAdapter(cfg), nil
		},
		config.ProviderGroq: func(cfg config.ProviderConfig) (Adapter, error) {
			return NewGroqAdapter(cfg), nil
		},
		config.ProviderAnthropic: func(cfg config.ProviderConfig) (Adapter, error) {
			return NewAnthropicAdapter(cfg)
		},
		config.ProviderOpenRouter: func(cfg config.ProviderConfig) (Adapter, error) {
			return NewOpenRouterAdapter(cfg)
		},
	}
}

// Factory holds exactly one active adapter. Reads are lock-free; switches are serialized.
type Factory struct {
	cfg      config.AIConfig
	builders map[string]Builder
	active   atomic.Pointer[Adapter]
	switchMu sync.Mutex
}

// NewFactory creates the factory with the real provider constructors
func NewFactory(cfg config.AIConfig) (*Factory, error) {
	return NewFactoryWithBuilders(cfg, DefaultBuilders())
}

// NewFactoryWithBuilders creates the factory with custom constructors
func NewFactoryWithBuilders(cfg config.AIConfig, builders map[string]Builder) (*Factory, error) {
	f := &Factory{cfg: cfg, builders: builders}

	provider, err := ParseProvider(cfg.Provider)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"configured": cfg.Provider,
			"default":    config.DefaultProvider,
		}).Warn("Invalid AI_PROVIDER, defaulting")
		provider = config.DefaultProvider
	}

	adapter, err := f.build(provider)
	if err != nil {
		return nil, err
	}
	f.active.Store(&adapter)

	logger.Log.WithFields(logrus.Fields{
		"provider": provider,
		"model":    adapter.GetDefaultModel(),
	}).Info("AI adapter initialized")

	return f, nil
}

// ParseProvider matches a provider name case-insensitively against the supported set
func ParseProvider(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, p := range config.SupportedProviders {
		if p == normalized {
			return p, nil
		}
	}
	return "", apperr.InvalidArgument("unsupported AI provider %q, supported: %s",
		name, strings.Join(config.SupportedProviders, ", "))
}

func (f *Factory) build(provider string) (Adapter, error) {
	builder, ok := f.builders[provider]
	if !ok {
		return nil, apperr.InvalidArgument("no adapter builder for provider %q", provider)
	}
	settings, _ := f.cfg.ProviderSettings(provider)
	adapter, err := builder(settings)
	if err != nil {
		return nil, apperr.New(apperr.KindProviderUnavailable, err, fmt.Sprintf("failed to create %s adapter", provider))
	}
	return adapter, nil
}

// GetAdapter returns the active adapter. Callers should take one snapshot per request.
func (f *Factory) GetAdapter() Adapter {
	return *f.active.Load()
}

// SwitchProvider replaces the active adapter for all subsequent calls.
// In-flight requests keep the adapter they already obtained.
func (f *Factory) SwitchProvider(name string) (ProviderInfo, error) {
	provider, err := ParseProvider(name)
	if err != nil {
		return ProviderInfo{}, err
	}

	f.switchMu.Lock()
	defer f.switchMu.Unlock()

	adapter, err := f.build(provider)
	if err != nil {
		return ProviderInfo{}, err
	}
	f.active.Store(&adapter)

	logger.Log.WithField("provider", provider).Info("Switched AI provider")
	return f.GetProviderInfo(), nil
}

// GetProviderInfo describes the active adapter
func (f *Factory) GetProviderInfo() ProviderInfo {
	adapter := f.GetAdapter()
	return ProviderInfo{
		Provider:        adapter.GetProviderName(),
		DefaultModel:    adapter.GetDefaultModel(),
		AvailableModels: adapter.GetAvailableModels(),
	}
}
