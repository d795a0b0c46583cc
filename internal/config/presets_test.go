package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPresetsCatalog_ValidConfig(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "presets.yaml")

	validYAML := `presets:
  - name: Executive
    formality: 0.9
    warmth: 0.3
    directness: 0.7
    description: C-level outreach
  - name: Casual
    formality: 0.3
    warmth: 0.8
    directness: 0.4
`
	if err := os.WriteFile(configPath, []byte(validYAML), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	catalog, err := NewPresetsCatalog(configPath)
	if err != nil {
		t.Fatalf("NewPresetsCatalog() error = %v, want nil", err)
	}

	presets := catalog.GetPresets()
	if len(presets) != 2 {
		t.Fatalf("GetPresets() returned %d presets, want 2", len(presets))
	}
	// Sorted by name
	if presets[0].Name != "Casual" {
		t.Errorf("GetPresets()[0].Name = %q, want Casual", presets[0].Name)
	}

	exec, ok := catalog.FindPreset("Executive")
	if !ok {
		t.Fatal("FindPreset(Executive) not found")
	}
	if exec.Formality != 0.9 || exec.Warmth != 0.3 || exec.Directness != 0.7 {
		t.Errorf("Executive tone = %+v", exec.ToneVector)
	}
}

func TestNewPresetsCatalog_FileNotFound(t *testing.T) {
	catalog, err := NewPresetsCatalog("/nonexistent/path/presets.yaml")
	if err == nil {
		t.Error("NewPresetsCatalog() error = nil, want error for nonexistent file")
	}
	if catalog != nil {
		t.Error("NewPresetsCatalog() returned non-nil catalog for nonexistent file")
	}
}

func TestNewPresetsCatalog_OutOfRangeTone(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	bad := `presets:
  - name: Broken
    formality: 1.5
    warmth: 0.5
    directness: 0.5
`
	if err := os.WriteFile(configPath, []byte(bad), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	if _, err := NewPresetsCatalog(configPath); err == nil {
		t.Error("NewPresetsCatalog() error = nil, want error for out-of-range tone")
	}
}

func TestLoadPresetsCatalog_FallsBackToBuiltin(t *testing.T) {
	catalog, err := LoadPresetsCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadPresetsCatalog() error = %v", err)
	}
	if got := len(catalog.GetPresets()); got != 13 {
		t.Errorf("built-in presets = %d, want 13", got)
	}
	if _, ok := catalog.FindPreset("Default"); !ok {
		t.Error("built-in presets missing Default")
	}
}

func TestGetPresets_DoesNotExposeInternalSlice(t *testing.T) {
	catalog := DefaultPresetsCatalog()
	presets := catalog.GetPresets()
	presets[0].Name = "mutated"

	if catalog.GetPresets()[0].Name == "mutated" {
		t.Error("GetPresets() returned a slice aliasing catalog state")
	}
}
