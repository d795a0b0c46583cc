package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/happychuks/linkedin-sequence-gen/internal/logger"
	"github.com/happychuks/linkedin-sequence-gen/internal/model"

	"gopkg.in/yaml.v3"
)

// TonePreset is a named tone vector offered to clients and seeded into storage
type TonePreset struct {
	Name             string `json:"name" yaml:"name"`
	model.ToneVector `yaml:",inline"`
	Description      string `json:"description" yaml:"description"`
}

// PresetsCatalog holds the available tone presets
type PresetsCatalog struct {
	presets []TonePreset
}

type presetsFile struct {
	Presets []TonePreset `yaml:"presets"`
}

// builtinPresets is used when no catalog file is present
var builtinPresets = []TonePreset{
	{"Default", model.ToneVector{Formality: 0.5, Warmth: 0.5, Directness: 0.5}, "Default balanced tone of voice configuration"},
	{"Executive", model.ToneVector{Formality: 0.9, Warmth: 0.3, Directness: 0.7}, "High formality, low warmth, direct - for C-level outreach"},
	{"Professional", model.ToneVector{Formality: 0.8, Warmth: 0.5, Directness: 0.6}, "Professional tone with moderate warmth - for business contacts"},
	{"Consultative", model.ToneVector{Formality: 0.7, Warmth: 0.7, Directness: 0.5}, "Moderate formality with high warmth - for advisory roles"},
	{"Casual", model.ToneVector{Formality: 0.3, Warmth: 0.8, Directness: 0.4}, "Low formality, high warmth, gentle approach - for peer-level contacts"},
	{"Friendly", model.ToneVector{Formality: 0.4, Warmth: 0.9, Directness: 0.3}, "Very warm and approachable - for relationship building"},
	{"Startup", model.ToneVector{Formality: 0.2, Warmth: 0.7, Directness: 0.6}, "Casual but direct - for startup environments"},
	{"Sales", model.ToneVector{Formality: 0.6, Warmth: 0.4, Directness: 0.9}, "Balanced formality, low warmth, very direct - for sales outreach"},
	{"Direct", model.ToneVector{Formality: 0.5, Warmth: 0.6, Directness: 0.8}, "Balanced approach with clear directness - general purpose"},
	{"Corporate", model.ToneVector{Formality: 0.7, Warmth: 0.3, Directness: 0.9}, "Formal and direct with minimal warmth - for large corporations"},
	{"Networking", model.ToneVector{Formality: 0.8, Warmth: 0.8, Directness: 0.4}, "Formal but warm with gentle approach - for networking events"},
	{"Tech", model.ToneVector{Formality: 0.4, Warmth: 0.5, Directness: 0.7}, "Moderate formality and warmth with directness - for technical roles"},
	{"Balanced", model.ToneVector{Formality: 0.6, Warmth: 0.6, Directness: 0.6}, "Perfect balance across all dimensions - versatile option"},
}

// NewPresetsCatalog creates a preset catalog from a YAML file
func NewPresetsCatalog(configPath string) (*PresetsCatalog, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var file presetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", configPath, err)
	}

	seen := make(map[string]bool, len(file.Presets))
	for _, p := range file.Presets {
		if p.Name == "" {
			return nil, errors.New("preset without a name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[p.Name] = true
		if err := p.ToneVector.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}

	return &PresetsCatalog{presets: file.Presets}, nil
}

// LoadPresetsCatalog reads the catalog file, falling back to the built-in presets when it is missing
func LoadPresetsCatalog(configPath string) (*PresetsCatalog, error) {
	catalog, err := NewPresetsCatalog(configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Log.WithField("path", configPath).Warn("Tone presets file not found, using built-in presets")
		return DefaultPresetsCatalog(), nil
	}
	return catalog, err
}

// DefaultPresetsCatalog returns the built-in presets
func DefaultPresetsCatalog() *PresetsCatalog {
	presets := make([]TonePreset, len(builtinPresets))
	copy(presets, builtinPresets)
	return &PresetsCatalog{presets: presets}
}

// GetPresets returns the presets ordered by name
func (pc *PresetsCatalog) GetPresets() []TonePreset {
	out := make([]TonePreset, len(pc.presets))
	copy(out, pc.presets)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindPreset looks up a preset by exact name
func (pc *PresetsCatalog) FindPreset(name string) (TonePreset, bool) {
	for _, p := range pc.presets {
		if p.Name == name {
			return p, true
		}
	}
	return TonePreset{}, false
}
