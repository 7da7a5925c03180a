// Package config holds the tunable thresholds and weights for prompt
// analysis. Defaults match the calibrated values; a YAML file can override
// any subset of them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root analysis configuration.
type Config struct {
	Parser        ParserConfig        `yaml:"parser"`
	Contradiction ContradictionConfig `yaml:"contradiction"`
	Alignment     AlignmentConfig     `yaml:"alignment"`
	Verbosity     VerbosityConfig     `yaml:"verbosity"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Bridge        BridgeConfig        `yaml:"bridge"`
}

// ParserConfig controls requirement extraction from system prompts.
type ParserConfig struct {
	// AnchorThreshold is the minimum similarity for a phrase to be
	// classified as a known parameter.
	AnchorThreshold float64 `yaml:"anchor_threshold"`

	HardConstraintConfidence float64 `yaml:"hard_constraint_confidence"`
	SoftConstraintConfidence float64 `yaml:"soft_constraint_confidence"`
	ScopeConfidence          float64 `yaml:"scope_confidence"`
	OutputFormatConfidence   float64 `yaml:"output_format_confidence"`
	SafetyConfidence         float64 `yaml:"safety_confidence"`
}

// ContradictionConfig controls internal consistency checking.
type ContradictionConfig struct {
	NegationThreshold float64 `yaml:"negation_threshold"`
	ConflictThreshold float64 `yaml:"conflict_threshold"`

	// Catalogue findings with a moderate default severity escalate to high
	// at or above this confidence.
	ConstraintHighConfidence float64 `yaml:"constraint_high_confidence"`

	// Score deductions per finding, keyed by severity.
	PenaltyCritical float64 `yaml:"penalty_critical"`
	PenaltyHigh     float64 `yaml:"penalty_high"`
	PenaltyModerate float64 `yaml:"penalty_moderate"`
	PenaltyLow      float64 `yaml:"penalty_low"`
}

// AlignmentConfig controls user-request evaluation against requirements.
type AlignmentConfig struct {
	HardViolationThreshold float64 `yaml:"hard_violation_threshold"`
	SoftViolationThreshold float64 `yaml:"soft_violation_threshold"`
	ScopeThreshold         float64 `yaml:"scope_threshold"`
	SafetyThreshold        float64 `yaml:"safety_threshold"`

	// CompletenessExponent shapes the missing-parameter penalty curve.
	CompletenessExponent float64 `yaml:"completeness_exponent"`

	WeightCompleteness float64 `yaml:"weight_completeness"`
	WeightConstraints  float64 `yaml:"weight_constraints"`
	WeightScope        float64 `yaml:"weight_scope"`
	WeightSafety       float64 `yaml:"weight_safety"`

	ViolationPenalty float64 `yaml:"violation_penalty"`
	ScopePenalty     float64 `yaml:"scope_penalty"`
	SafetyPenalty    float64 `yaml:"safety_penalty"`
}

// VerbosityConfig controls length and redundancy analysis.
type VerbosityConfig struct {
	OptimalMinWords int `yaml:"optimal_min_words"`
	OptimalMaxWords int `yaml:"optimal_max_words"`
	MaxWords        int `yaml:"max_words"`

	WeightLength     float64 `yaml:"weight_length"`
	WeightRedundancy float64 `yaml:"weight_redundancy"`
	WeightDensity    float64 `yaml:"weight_density"`
	WeightBurial     float64 `yaml:"weight_burial"`

	RedundancyJaccard float64 `yaml:"redundancy_jaccard"`
	BurialPercentile  float64 `yaml:"burial_percentile"`

	// UnstructuredFactor scales the score down when the prompt carries no
	// recognizable directives at all.
	UnstructuredFactor float64 `yaml:"unstructured_factor"`
}

// ScoringConfig controls how component scores combine into the overall
// quality score.
type ScoringConfig struct {
	WeightAlignment    float64 `yaml:"weight_alignment"`
	WeightConsistency  float64 `yaml:"weight_consistency"`
	WeightCompleteness float64 `yaml:"weight_completeness"`
	WeightVerbosity    float64 `yaml:"weight_verbosity"`

	// Weights used when no user request is supplied.
	SoloWeightConsistency float64 `yaml:"solo_weight_consistency"`
	SoloWeightVerbosity   float64 `yaml:"solo_weight_verbosity"`

	BandExcellent float64 `yaml:"band_excellent"`
	BandGood      float64 `yaml:"band_good"`
	BandFair      float64 `yaml:"band_fair"`
	BandPoor      float64 `yaml:"band_poor"`
}

// BridgeConfig controls the deep-analysis service client and how its
// verdict merges with the local score.
type BridgeConfig struct {
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`

	// Risk scores at or above HighRisk override the local score. Scores in
	// [ModerateRisk, HighRisk) blend with it.
	HighRisk     float64 `yaml:"high_risk"`
	ModerateRisk float64 `yaml:"moderate_risk"`

	BlendLocalWeight float64 `yaml:"blend_local_weight"`
	BlendRiskWeight  float64 `yaml:"blend_risk_weight"`
}

// Default returns the calibrated configuration.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			AnchorThreshold:          0.50,
			HardConstraintConfidence: 0.85,
			SoftConstraintConfidence: 0.75,
			ScopeConfidence:          0.80,
			OutputFormatConfidence:   0.70,
			SafetyConfidence:         0.75,
		},
		Contradiction: ContradictionConfig{
			NegationThreshold:        0.65,
			ConflictThreshold:        0.65,
			ConstraintHighConfidence: 0.70,
			PenaltyCritical:          2.5,
			PenaltyHigh:              1.5,
			PenaltyModerate:          0.8,
			PenaltyLow:               0.3,
		},
		Alignment: AlignmentConfig{
			HardViolationThreshold: 0.65,
			SoftViolationThreshold: 0.70,
			ScopeThreshold:         0.60,
			SafetyThreshold:        0.65,
			CompletenessExponent:   0.7,
			WeightCompleteness:     0.35,
			WeightConstraints:      0.25,
			WeightScope:            0.20,
			WeightSafety:           0.20,
			ViolationPenalty:       2.0,
			ScopePenalty:           3.0,
			SafetyPenalty:          4.0,
		},
		Verbosity: VerbosityConfig{
			OptimalMinWords:    50,
			OptimalMaxWords:    150,
			MaxWords:           200,
			WeightLength:       0.4,
			WeightRedundancy:   0.3,
			WeightDensity:      0.2,
			WeightBurial:       0.1,
			RedundancyJaccard:  0.5,
			BurialPercentile:   0.8,
			UnstructuredFactor: 0.35,
		},
		Scoring: ScoringConfig{
			WeightAlignment:       0.30,
			WeightConsistency:     0.25,
			WeightCompleteness:    0.25,
			WeightVerbosity:       0.20,
			SoloWeightConsistency: 0.5,
			SoloWeightVerbosity:   0.5,
			BandExcellent:         9.0,
			BandGood:              7.0,
			BandFair:              5.0,
			BandPoor:              3.0,
		},
		Bridge: BridgeConfig{
			Timeout:          Duration(30 * time.Second),
			MaxRetries:       1,
			HighRisk:         7.0,
			ModerateRisk:     4.0,
			BlendLocalWeight: 0.3,
			BlendRiskWeight:  0.7,
		},
	}
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
