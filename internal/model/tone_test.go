package model

import (
	"math"
	"testing"
)

func TestLevelThresholds(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, LevelLow},
		{0.49, LevelLow},
		{0.4999, LevelLow},
		{0.5, LevelModerate},
		{0.79, LevelModerate},
		{0.8, LevelHigh},
		{1, LevelHigh},
	}

	for _, tt := range tests {
		if got := Level(tt.value); got != tt.want {
			t.Errorf("Level(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDescriptor(t *testing.T) {
	tone := ToneVector{Formality: 0.9, Warmth: 0.5, Directness: 0.2}
	want := "Formality: high, Warmth: moderate, Directness: low"
	if got := tone.Descriptor(); got != want {
		t.Errorf("Descriptor() = %q, want %q", got, want)
	}

	// Different vectors can collapse to the same descriptor
	other := ToneVector{Formality: 0.85, Warmth: 0.6, Directness: 0.1}
	if other.Descriptor() != tone.Descriptor() {
		t.Errorf("expected %v and %v to share a descriptor", tone, other)
	}
}

func TestValidate(t *testing.T) {
	if err := (ToneVector{Formality: 0, Warmth: 1, Directness: 0.5}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	bad := []ToneVector{
		{Formality: -0.1, Warmth: 0.5, Directness: 0.5},
		{Formality: 0.5, Warmth: 1.1, Directness: 0.5},
		{Formality: 0.5, Warmth: 0.5, Directness: math.NaN()},
	}
	for _, tone := range bad {
		if err := tone.Validate(); err == nil {
			t.Errorf("Validate(%v) = nil, want error", tone)
		}
	}
}

func TestDiff(t *testing.T) {
	from := ToneVector{Formality: 0.5, Warmth: 0.5, Directness: 0.5}
	to := ToneVector{Formality: 0.9, Warmth: 0.3, Directness: 0.5}

	diff := from.Diff(to)
	if diff.Formality.Delta != 0.4 {
		t.Errorf("formality delta = %v, want 0.4", diff.Formality.Delta)
	}
	if diff.Warmth.Delta != -0.2 {
		t.Errorf("warmth delta = %v, want -0.2", diff.Warmth.Delta)
	}
	if diff.Directness.Delta != 0 {
		t.Errorf("directness delta = %v, want 0", diff.Directness.Delta)
	}
}

func TestAverageConfidence(t *testing.T) {
	msgs := []GeneratedMessage{
		{Message: "a", Type: MessageOpening, Confidence: Float(0.7)},
		{Message: "b", Type: MessageFollowUp},
		{Message: "c", Type: MessageCallToAction, Confidence: Float(0.8)},
	}
	if got := AverageConfidence(msgs); got != 0.75 {
		t.Errorf("AverageConfidence() = %v, want 0.75", got)
	}
	if got := AverageConfidence(msgs[1:2]); got != 0 {
		t.Errorf("AverageConfidence() with no scores = %v, want 0", got)
	}
}
