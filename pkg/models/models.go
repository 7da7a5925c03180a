package models

// Severity is the ordered importance tag shared by every analyzer.
// critical > high > moderate > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// Rank returns the sort weight of a severity (higher = more severe).
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityModerate:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// QualityRating is the five-band quality classification of a report.
type QualityRating string

const (
	RatingExcellent QualityRating = "excellent" // 9.0-10.0
	RatingGood      QualityRating = "good"      // 7.0-8.9
	RatingFair      QualityRating = "fair"      // 5.0-6.9
	RatingPoor      QualityRating = "poor"      // 3.0-4.9
	RatingCritical  QualityRating = "critical"  // 0.0-2.9
)

// QualityIssue is a single finding reported by any analyzer. Immutable
// once emitted.
type QualityIssue struct {
	Category       string   `json:"category"` // "contradiction", "alignment", "verbosity", "artifact"
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Confidence     float64  `json:"confidence"`
}

// ComponentScores holds the four Tier-1 component scores, each 0-10.
type ComponentScores struct {
	Alignment    float64 `json:"alignment"`
	Consistency  float64 `json:"consistency"`
	Verbosity    float64 `json:"verbosity"`
	Completeness float64 `json:"completeness"`
}

// IssueCounts summarizes issues per severity.
type IssueCounts struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Moderate int `json:"moderate"`
	Low      int `json:"low"`
}

// RiskLevel is the unified-scoring risk classification produced when the
// deep-analysis tier contributes to a report.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// UnifiedVerdict carries the merged Tier-1/Tier-2 assessment. Present
// only when deep analysis ran successfully.
type UnifiedVerdict struct {
	Score          float64   `json:"score"`
	Verdict        string    `json:"verdict"`
	RiskLevel      RiskLevel `json:"risk_level"`
	PrimaryConcern string    `json:"primary_concern,omitempty"`
	Explanation    string    `json:"explanation,omitempty"`
	TokensUsed     int       `json:"tokens_used,omitempty"`
	CostEstimate   float64   `json:"cost_estimate,omitempty"`
}

// QualityReport is the single value produced per analysis call. Created
// fresh each call and never mutated after construction.
type QualityReport struct {
	ID            string          `json:"id"`
	OverallScore  float64         `json:"overall_score"`
	QualityRating QualityRating   `json:"quality_rating"`
	IsFulfillable bool            `json:"is_fulfillable"`
	Scores        ComponentScores `json:"scores"`
	IssueCounts   IssueCounts     `json:"issue_counts"`
	Issues        []QualityIssue  `json:"issues"`

	// Unified scoring, populated only when deep analysis succeeded.
	Unified *UnifiedVerdict `json:"unified,omitempty"`

	// DegradedMode is set when deep analysis was requested but the
	// bridge failed; the report then carries Tier-1 results only.
	DegradedMode bool   `json:"degraded_mode,omitempty"`
	DegradedNote string `json:"degraded_note,omitempty"`

	Domain        string   `json:"domain,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	MissingParams []string `json:"missing_params,omitempty"`
}
