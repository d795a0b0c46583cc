package ai

import "github.com/happychuks/linkedin-sequence-gen/internal/model"

// FallbackModel is reported as model_used when the static sequence is returned
const FallbackModel = "fallback"

var defaultSequence = model.GenerationResult{
	Sequence: []model.GeneratedMessage{
		{
			Message:     "Hi there! I noticed your impressive background and thought you might be interested in connecting. Your experience in the industry really caught my attention, and I'd love to learn more about your current work.",
			Type:        model.MessageOpening,
			Confidence:  model.Float(0.72),
			AIReasoning: "Professional opening that acknowledges their background without being too specific, maintaining authenticity while being broadly applicable.",
		},
		{
			Message:     "I'm always interested in connecting with professionals who are making an impact in their field. Would you be open to sharing insights about your current role and the challenges you're working on?",
			Type:        model.MessageFollowUp,
			Confidence:  model.Float(0.68),
			AIReasoning: "Builds rapport by showing genuine interest in their work and inviting them to share, which most professionals enjoy doing.",
		},
		{
			Message:     "I'd love to continue this conversation over a brief call if you're interested. Even a 15-minute chat could be valuable for both of us. Would next week work for a quick connection call?",
			Type:        model.MessageCallToAction,
			Confidence:  model.Float(0.75),
			AIReasoning: "Clear call-to-action with specific time commitment (15 minutes) and mutual value proposition, plus flexible timing.",
		},
	},
	ThinkingProcess: model.ThinkingProcess{
		Analysis:      "This fallback sequence is designed to be professional yet personable, avoiding overly specific details that might seem inauthentic. The approach focuses on genuine interest in their professional experience while maintaining broad applicability. The progression moves logically from acknowledgment to curiosity to action.",
		ToneOfVoice:   "Professional, respectful, and genuinely interested. The tone balances business formality with human warmth, avoiding both overly casual and overly corporate language. Each message maintains authenticity while being broadly applicable.",
		SequenceLogic: "Opening: Acknowledge their background and express genuine interest. Follow-up: Build rapport by asking about their current work and challenges. Call-to-action: Propose a specific, low-commitment next step with mutual value. This creates a natural conversation flow that feels organic rather than scripted.",
	},
	ProspectAnalysis: "Using a general professional analysis since specific prospect information is unavailable. This sequence assumes a mid-to-senior level professional who values meaningful connections and is likely open to networking if approached respectfully. The messaging is designed to work across various industries and roles.",
	Metadata: model.Metadata{
		ModelUsed: FallbackModel,
	},
}

// DefaultSequence returns a fresh copy of the static sequence used when every attempt fails
func DefaultSequence() model.GenerationResult {
	return defaultSequence.Clone()
}
