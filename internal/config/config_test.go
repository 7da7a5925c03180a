package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	cfg := Default()

	sum := cfg.Scoring.WeightAlignment + cfg.Scoring.WeightConsistency +
		cfg.Scoring.WeightCompleteness + cfg.Scoring.WeightVerbosity
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("scoring weights sum to %f, want 1.0", sum)
	}

	solo := cfg.Scoring.SoloWeightConsistency + cfg.Scoring.SoloWeightVerbosity
	if solo < 0.999 || solo > 1.001 {
		t.Errorf("solo weights sum to %f, want 1.0", solo)
	}

	align := cfg.Alignment.WeightCompleteness + cfg.Alignment.WeightConstraints +
		cfg.Alignment.WeightScope + cfg.Alignment.WeightSafety
	if align < 0.999 || align > 1.001 {
		t.Errorf("alignment weights sum to %f, want 1.0", align)
	}
}

func TestLoadOverridesSubset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("contradiction:\n  negation_threshold: 0.8\nbridge:\n  timeout: 5s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Contradiction.NegationThreshold != 0.8 {
		t.Errorf("override not applied, got %f", cfg.Contradiction.NegationThreshold)
	}
	if cfg.Bridge.Timeout.Std() != 5*time.Second {
		t.Errorf("timeout override not applied, got %v", cfg.Bridge.Timeout)
	}
	// untouched values keep defaults
	if cfg.Parser.AnchorThreshold != 0.50 {
		t.Errorf("default lost, got %f", cfg.Parser.AnchorThreshold)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Verbosity.OptimalMinWords != 50 {
		t.Errorf("unexpected default: %d", cfg.Verbosity.OptimalMinWords)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
