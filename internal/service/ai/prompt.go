package ai

import (
	"fmt"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
)

// Prompt is a rendered instruction block and the name it addresses
type Prompt struct {
	Text          string
	ExtractedName string
}

// BuildPrompt renders the generation instructions for one prospect.
// The JSON shape and message types listed here are what ProcessResponse validates against.
func BuildPrompt(prospectURL string, tone model.ToneVector, context string, length int) Prompt {
	name := ExtractName(prospectURL)
	return Prompt{
		Text:          renderPrompt(name, prospectURL, context, tone.Descriptor(), length),
		ExtractedName: name,
	}
}

func renderPrompt(name, prospectURL, context, tone string, length int) string {
	return fmt.Sprintf(`
CRITICAL INSTRUCTION: The prospect's name is "%[1]s". You MUST use this exact name.

You are writing a %[5]d-step LinkedIn outreach sequence for:

PROSPECT: %[1]s
URL: %[2]s
CONTEXT: %[3]s
TONE: %[4]s

ABSOLUTE REQUIREMENTS:
- Start every message with "Hi %[1]s" or "Hello %[1]s"
- Provide realistic confidence scores based on message quality and personalization level
- Confidence should reflect: personalization depth, context relevance, tone appropriateness, and call-to-action clarity

CONFIDENCE SCORING GUIDELINES:
- 0.9-1.0: Highly personalized with specific context, perfect tone match, clear value proposition
- 0.7-0.89: Well personalized with good context, appropriate tone, solid messaging
- 0.5-0.69: Moderately personalized, decent context, acceptable tone
- 0.3-0.49: Generic messaging with minimal personalization
- 0.1-0.29: Poor quality, weak personalization, unclear messaging

NOTE: Start with 0.5 as baseline for decent messages, then adjust up/down based on quality factors.

JSON FORMAT REQUIRED:
{
  "sequence": [
    {
      "message": "Hi %[1]s, [your personalized message here]",
      "type": "opening",
      "confidence": 0.65,
      "aiReasoning": "explanation"
    },
    {
      "message": "Follow-up message using %[1]s",
      "type": "follow-up",
      "confidence": 0.58,
      "aiReasoning": "explanation"
    },
    {
      "message": "Final message with %[1]s",
      "type": "call-to-action",
      "confidence": 0.62,
      "aiReasoning": "explanation"
    }
  ],
  "thinking_process": {
    "analysis": "analysis",
    "tone_of_voice": "tone description",
    "sequence_logic": "logic"
  },
  "prospect_analysis": "detailed analysis of the prospect based on their LinkedIn profile and context",
  "metadata": {
    "model_used": "auto",
    "cost": "auto"
  }
}

VALID MESSAGE TYPES: "opening", "follow-up", "call-to-action", "closing"`, name, prospectURL, context, tone, length)
}
