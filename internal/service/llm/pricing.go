package llm

import "math"

// Price is the cost of input and output tokens per pricing unit
type Price struct {
	Input  float64
	Output float64
}

const (
	perThousand = 1_000
	perMillion  = 1_000_000
)

// PriceTable maps model identifiers to prices with a fallback for unknown models
type PriceTable struct {
	Unit     float64
	Prices   map[string]Price
	Fallback Price
}

// Cost returns the USD cost of usage on model, rounded to 6 decimals
func (t PriceTable) Cost(usage Usage, model string) float64 {
	price, ok := t.Prices[model]
	if !ok {
		price = t.Fallback
	}
	input := float64(usage.PromptTokens) / t.Unit * price.Input
	output := float64(usage.CompletionTokens) / t.Unit * price.Output
	return math.Round((input+output)*1e6) / 1e6
}

var openAIPricing = PriceTable{
	Unit: perThousand,
	Prices: map[string]Price{
		"gpt-4":             {0.03, 0.06},
		"gpt-4-turbo":       {0.01, 0.03},
		"gpt-3.5-turbo":     {0.0015, 0.002},
		"gpt-3.5-turbo-16k": {0.003, 0.004},
	},
	Fallback: Price{0.0015, 0.002},
}

var anthropicPricing = PriceTable{
	Unit: perThousand,
	Prices: map[string]Price{
		"claude-3-5-sonnet-20241022": {0.003, 0.015},
		"claude-3-5-sonnet-20240620": {0.003, 0.015},
		"claude-3-opus-20240229":     {0.015, 0.075},
		"claude-3-sonnet-20240229":   {0.003, 0.015},
		"claude-3-haiku-20240307":    {0.00025, 0.00125},
	},
	Fallback: Price{0.003, 0.015},
}

var groqPricing = PriceTable{
	Unit: perMillion,
	Prices: map[string]Price{
		"llama-3.3-70b-versatile":       {0.59, 0.79},
		"llama-3.3-70b-specdec":         {0.59, 0.79},
		"llama-3.1-8b-instant":          {0.05, 0.08},
		"gemma2-9b-it":                  {0.2, 0.2},
		"qwen3-32b":                     {0.3, 0.4},
		"deepseek-r1-distill-llama-70b": {0.59, 0.79},
		"moonshotai/kimi-k2-instruct":   {0.4, 0.6},
	},
	// llama-3.1-8b-instant
	Fallback: Price{0.05, 0.08},
}

var openRouterPricing = PriceTable{
	Unit: perMillion,
	Prices: map[string]Price{
		"meta-llama/llama-3.3-70b-instruct":        {0.13, 0.4},
		"meta-llama/llama-3.3-8b-instruct:free":    {0, 0},
		"mistralai/mistral-small-3.2-24b-instruct": {0.05, 0.1},
		"openai/gpt-4o-mini":                       {0.15, 0.6},
	},
	Fallback: Price{0.13, 0.4},
}
