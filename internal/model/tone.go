package model

import (
	"fmt"
	"math"
)

// ToneVector is the {formality, warmth, directness} triple governing message style.
// Each axis is expected in [0,1].
type ToneVector struct {
	Formality  float64 `json:"formality" yaml:"formality"`
	Warmth     float64 `json:"warmth" yaml:"warmth"`
	Directness float64 `json:"directness" yaml:"directness"`
}

// Qualitative levels produced by Level
const (
	LevelHigh     = "high"
	LevelModerate = "moderate"
	LevelLow      = "low"
)

// Level converts one tone axis to its qualitative descriptor
func Level(v float64) string {
	switch {
	case v >= 0.8:
		return LevelHigh
	case v >= 0.5:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Descriptor renders the tone vector for the prompt. Distinct vectors may share a descriptor.
func (t ToneVector) Descriptor() string {
	return fmt.Sprintf("Formality: %s, Warmth: %s, Directness: %s",
		Level(t.Formality), Level(t.Warmth), Level(t.Directness))
}

// Validate checks that every axis is a finite number in [0,1]
func (t ToneVector) Validate() error {
	axes := []struct {
		name  string
		value float64
	}{
		{"formality", t.Formality},
		{"warmth", t.Warmth},
		{"directness", t.Directness},
	}
	for _, a := range axes {
		if math.IsNaN(a.value) || a.value < 0 || a.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", a.name, a.value)
		}
	}
	return nil
}

// AxisChange describes how one tone axis moved between two versions
type AxisChange struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Delta float64 `json:"delta"`
}

// ToneDiff holds per-axis changes
type ToneDiff struct {
	Formality  AxisChange `json:"formality"`
	Warmth     AxisChange `json:"warmth"`
	Directness AxisChange `json:"directness"`
}

// Diff returns the per-axis change from t to next. Deltas are rounded to 2 decimals.
func (t ToneVector) Diff(next ToneVector) ToneDiff {
	change := func(from, to float64) AxisChange {
		return AxisChange{From: from, To: to, Delta: Round(to-from, 2)}
	}
	return ToneDiff{
		Formality:  change(t.Formality, next.Formality),
		Warmth:     change(t.Warmth, next.Warmth),
		Directness: change(t.Directness, next.Directness),
	}
}

// Round rounds half away from zero to the given number of decimals
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
