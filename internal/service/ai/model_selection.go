package ai

import (
	"fmt"

	"github.com/happychuks/linkedin-sequence-gen/internal/config"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"
)

// Complexity is the requested effort level for a generation
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// ParseComplexity validates a complexity name
func ParseComplexity(s string) (Complexity, error) {
	switch c := Complexity(s); c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return c, nil
	default:
		return "", fmt.Errorf("unknown complexity %q", s)
	}
}

// tier preferences, most preferred first
type tierTable struct {
	large []string
	mid   []string
	small []string
}

var tierTables = map[string]tierTable{
	config.ProviderOpenAI: {
		large: []string{"gpt-4"},
		mid:   []string{"gpt-3.5-turbo"},
	},
	config.ProviderAnthropic: {
		large: []string{"claude-3-opus-20240229"},
		mid:   []string{"claude-3-sonnet-20240229"},
		small: []string{"claude-3-haiku-20240307"},
	},
	config.ProviderGroq: {
		large: []string{"deepseek-r1-distill-llama-70b", "llama-3.3-70b-versatile"},
		mid:   []string{"llama-3.3-70b-versatile", "llama-3.3-70b-specdec"},
		small: []string{"llama-3.1-8b-instant", "gemma2-9b-it"},
	},
}

// retryModels is the fixed second-attempt model per provider
var retryModels = map[string]string{
	config.ProviderOpenAI:    "gpt-3.5-turbo",
	config.ProviderGroq:      "llama-3.1-8b-instant",
	config.ProviderAnthropic: "claude-3-haiku-20240307",
}

// SelectOptimalModel picks a model for the first attempt.
// Length 4 or complex picks the large tier, length 3 or medium the mid tier, otherwise the small tier.
// A preferred model missing from the adapter's list falls through to the next, then to the default.
func SelectOptimalModel(sequenceLength int, complexity Complexity, adapter llm.Adapter) string {
	table, ok := tierTables[adapter.GetProviderName()]
	if !ok {
		return adapter.GetDefaultModel()
	}

	var preferred []string
	switch {
	case complexity == ComplexityComplex || sequenceLength == 4:
		preferred = table.large
	case complexity == ComplexityMedium || sequenceLength == 3:
		preferred = table.mid
	default:
		preferred = table.small
	}

	for _, m := range preferred {
		if llm.IsAvailable(adapter, m) {
			return m
		}
	}
	return adapter.GetDefaultModel()
}

// RetryModel returns the second-attempt model, independent of SelectOptimalModel
func RetryModel(adapter llm.Adapter) string {
	if m, ok := retryModels[adapter.GetProviderName()]; ok {
		return m
	}
	return adapter.GetDefaultModel()
}
