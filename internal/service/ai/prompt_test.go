package ai

import (
	"strings"
	"testing"

	"github.com/happychuks/linkedin-sequence-gen/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	tone := model.ToneVector{Formality: 0.9, Warmth: 0.5, Directness: 0.2}
	p := BuildPrompt("https://www.linkedin.com/in/jane-smith-42", tone, "Series B fintech", 3)

	if p.ExtractedName != "Jane Smith" {
		t.Fatalf("ExtractedName = %q, want %q", p.ExtractedName, "Jane Smith")
	}

	mustContain := []string{
		`The prospect's name is "Jane Smith"`,
		"https://www.linkedin.com/in/jane-smith-42",
		"Series B fintech",
		"Formality: high, Warmth: moderate, Directness: low",
		"3-step",
		"0.9-1.0",
		"0.1-0.29",
		`"sequence"`,
		`"thinking_process"`,
		`"prospect_analysis"`,
		`"metadata"`,
	}
	for _, want := range mustContain {
		if !strings.Contains(p.Text, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	for _, mt := range model.MessageTypes {
		if !strings.Contains(p.Text, string(mt)) {
			t.Errorf("prompt missing message type %q", mt)
		}
	}
}

func TestBuildPrompt_FallbackName(t *testing.T) {
	p := BuildPrompt("not a profile", model.ToneVector{}, "", 2)
	if p.ExtractedName != FallbackName {
		t.Errorf("ExtractedName = %q, want %q", p.ExtractedName, FallbackName)
	}
}
