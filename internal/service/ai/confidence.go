package ai

import (
	"math"
	"strings"
	"unicode/utf16"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
)

var ctaVocabulary = []string{"connect", "chat", "schedule", "meeting", "call", "discuss", "calendar"}

const baseConfidence = 0.5

// OptimizeScores recomputes every message's confidence from observable signals.
// The input slice is not modified.
func OptimizeScores(sequence []model.GeneratedMessage, extractedName string) []model.GeneratedMessage {
	out := model.CloneMessages(sequence)
	nameLower := strings.ToLower(extractedName)

	for i := range out {
		score := scoreMessage(out[i], nameLower)
		out[i].Confidence = &score
	}
	return out
}

func scoreMessage(msg model.GeneratedMessage, nameLower string) float64 {
	text := strings.TrimSpace(msg.Message)
	lower := strings.ToLower(text)
	length := utf16Len(text)

	var bonus float64

	if strings.Contains(lower, nameLower) {
		bonus += 0.1
	}

	switch {
	case length >= 120 && length <= 300:
		bonus += 0.1
	case length > 400:
		bonus -= 0.05
	case length < 50:
		bonus -= 0.1
	}

	if msg.Type == model.MessageCallToAction {
		if containsAny(lower, ctaVocabulary) {
			bonus += 0.1
		} else {
			bonus -= 0.1
		}
	}

	if msg.Type == model.MessageOpening && strings.HasPrefix(lower, "hi ") {
		bonus += 0.05
	}
	if msg.Type == model.MessageClosing && strings.Contains(lower, "looking forward") {
		bonus += 0.03
	}

	if utf16Len(msg.AIReasoning) > 20 {
		bonus += 0.05
	}

	score := math.Max(0.1, math.Min(1.0, baseConfidence+bonus))
	return math.Round(score*100) / 100
}

// utf16Len counts UTF-16 code units, so characters outside the BMP (most emoji) count twice
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
