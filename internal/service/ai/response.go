package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/happychuks/linkedin-sequence-gen/internal/apperr"
	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"
	"github.com/happychuks/linkedin-sequence-gen/internal/service/llm"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
)

// rawExcerptLength bounds how much model output is attached to failure logs
const rawExcerptLength = 500

const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["sequence", "thinking_process", "prospect_analysis", "metadata"],
  "properties": {
    "sequence": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["message", "type"],
        "properties": {
          "message": {"type": "string"},
          "type": {"enum": ["opening", "follow-up", "call-to-action", "closing"]},
          "confidence": {"type": "number"},
          "aiReasoning": {"type": "string"}
        }
      }
    },
    "thinking_process": {
      "type": "object",
      "required": ["analysis", "tone_of_voice", "sequence_logic"],
      "properties": {
        "analysis": {"type": "string"},
        "tone_of_voice": {"type": "string"},
        "sequence_logic": {"type": "string"}
      }
    },
    "prospect_analysis": {"type": "string"},
    "metadata": {
      "type": "object",
      "required": ["model_used", "cost"],
      "properties": {
        "model_used": {"type": "string"},
        "cost": {"type": "number"},
        "promptTokens": {"type": "number"},
        "completionTokens": {"type": "number"},
        "totalTokens": {"type": "number"}
      }
    }
  }
}`

var (
	objectSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
	arraySpanRe   = regexp.MustCompile(`(?s)\[.*\]`)
	leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// CostFunc prices a call's usage for the model that served it
type CostFunc func(usage llm.Usage, model string) float64

// ResponseProcessor turns raw model text into a validated GenerationResult
type ResponseProcessor struct {
	schema *gojsonschema.Schema
}

// NewResponseProcessor compiles the response schema
func NewResponseProcessor() (*ResponseProcessor, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}
	return &ResponseProcessor{schema: schema}, nil
}

// ExtractJSON returns the widest {...} span, else the widest [...] span, else the trimmed text
func ExtractJSON(content string) string {
	if m := objectSpanRe.FindString(content); m != "" {
		return m
	}
	if m := arraySpanRe.FindString(content); m != "" {
		return m
	}
	return strings.TrimSpace(content)
}

// Process parses and validates resp.Content, then overwrites metadata with the real call's figures
func (p *ResponseProcessor) Process(resp *llm.ChatResponse, cost CostFunc) (*model.GenerationResult, error) {
	var doc any
	if err := json.Unmarshal([]byte(ExtractJSON(resp.Content)), &doc); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"error":       err.Error(),
			"raw_content": logger.Truncate(resp.Content, rawExcerptLength),
		}).Error("Failed to parse JSON from AI response")
		return nil, apperr.New(apperr.KindSchemaMismatch, err, "invalid JSON from AI")
	}

	coerceCost(doc)

	result, err := p.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, apperr.New(apperr.KindSchemaMismatch, err, "AI response could not be validated")
	}
	if !result.Valid() {
		diagnostics := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			diagnostics = append(diagnostics, desc.String())
		}
		diagnostic := strings.Join(diagnostics, "; ")
		logger.Log.WithFields(logrus.Fields{
			"diagnostic":  diagnostic,
			"raw_content": logger.Truncate(resp.Content, rawExcerptLength),
		}).Error("AI response validation error")
		return nil, apperr.SchemaMismatch(diagnostic)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, apperr.New(apperr.KindSchemaMismatch, err, "failed to normalize AI response")
	}
	var out model.GenerationResult
	if err := json.Unmarshal(normalized, &out); err != nil {
		return nil, apperr.New(apperr.KindSchemaMismatch, err, "failed to decode AI response")
	}

	// Self-reported figures are discarded
	out.Metadata = model.Metadata{
		ModelUsed:        resp.Model,
		Cost:             cost(resp.Usage, resp.Model),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return &out, nil
}

// coerceCost converts a string metadata.cost to a number in place. Unparseable strings become 0.
func coerceCost(doc any) {
	root, ok := doc.(map[string]any)
	if !ok {
		return
	}
	meta, ok := root["metadata"].(map[string]any)
	if !ok {
		return
	}
	if s, ok := meta["cost"].(string); ok {
		meta["cost"] = parseLeadingFloat(s)
	}
}

// parseLeadingFloat reads the numeric prefix of s, e.g. "0.002 USD" -> 0.002
func parseLeadingFloat(s string) float64 {
	prefix := leadingNumber.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return v
}
