package model

// MessageType is the role of a message within an outreach sequence
type MessageType string

const (
	MessageOpening      MessageType = "opening"
	MessageFollowUp     MessageType = "follow-up"
	MessageCallToAction MessageType = "call-to-action"
	MessageClosing      MessageType = "closing"
)

// MessageTypes lists the valid message types in prompt order
var MessageTypes = []MessageType{MessageOpening, MessageFollowUp, MessageCallToAction, MessageClosing}

// GeneratedMessage is one outreach step. Order within a sequence is meaningful.
type GeneratedMessage struct {
	Message     string      `json:"message"`
	Type        MessageType `json:"type"`
	Confidence  *float64    `json:"confidence,omitempty"`
	AIReasoning string      `json:"aiReasoning,omitempty"`
}

// ThinkingProcess is the model's explanation of the sequence
type ThinkingProcess struct {
	Analysis      string `json:"analysis"`
	ToneOfVoice   string `json:"tone_of_voice"`
	SequenceLogic string `json:"sequence_logic"`
}

// Metadata describes the provider call that produced a result.
// Cost, model and token counts are always taken from the real call.
type Metadata struct {
	ModelUsed        string  `json:"model_used"`
	Cost             float64 `json:"cost"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
}

// GenerationResult is the unit persisted per sequence version
type GenerationResult struct {
	Sequence         []GeneratedMessage `json:"sequence"`
	ThinkingProcess  ThinkingProcess    `json:"thinking_process"`
	ProspectAnalysis string             `json:"prospect_analysis"`
	Metadata         Metadata           `json:"metadata"`
}

// Clone returns a deep copy so callers cannot mutate shared results
func (r GenerationResult) Clone() GenerationResult {
	out := r
	out.Sequence = CloneMessages(r.Sequence)
	return out
}

// CloneMessages deep-copies a message slice including confidence pointers
func CloneMessages(msgs []GeneratedMessage) []GeneratedMessage {
	if msgs == nil {
		return nil
	}
	out := make([]GeneratedMessage, len(msgs))
	for i, m := range msgs {
		out[i] = m
		if m.Confidence != nil {
			c := *m.Confidence
			out[i].Confidence = &c
		}
	}
	return out
}

// AverageConfidence is the mean over messages carrying a confidence, rounded to 2 decimals.
// Returns 0 when no message is scored.
func AverageConfidence(msgs []GeneratedMessage) float64 {
	var sum float64
	var n int
	for _, m := range msgs {
		if m.Confidence == nil {
			continue
		}
		sum += *m.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return Round(sum/float64(n), 2)
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
