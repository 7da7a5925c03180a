package quality

import (
	"math"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/deepanalysis"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// Verdict labels for the unified score.
const (
	VerdictRecommended    = "RECOMMENDED"
	VerdictNeedsRevision  = "NEEDS REVISION"
	VerdictNotRecommended = "NOT RECOMMENDED"
	VerdictDangerous      = "DANGEROUS"
)

// MergeVerdict combines the structural score with the deep-analysis risk
// verdict. High risk overrides the structural score entirely, moderate
// risk blends with it, low risk leaves it untouched. Pure function.
func MergeVerdict(structural float64, v *deepanalysis.Verdict, cfg *config.BridgeConfig) *models.UnifiedVerdict {
	uv := &models.UnifiedVerdict{
		Explanation:  v.Explanation,
		TokensUsed:   v.InputTokens + v.OutputTokens,
		CostEstimate: v.CostEstimate,
	}
	if v.RiskType != deepanalysis.RiskTypeNone {
		uv.PrimaryConcern = string(v.RiskType)
	}

	highRisk := v.RiskScore >= cfg.HighRisk ||
		(v.IsHighRisk && (v.RiskType == deepanalysis.RiskTypeSafety || v.RiskType == deepanalysis.RiskTypeSecurity))

	switch {
	case highRisk:
		uv.Score = math.Max(0, 10-v.RiskScore)
		if v.RiskScore >= 9 {
			uv.RiskLevel = models.RiskCritical
		} else {
			uv.RiskLevel = models.RiskHigh
		}
	case v.RiskScore >= cfg.ModerateRisk:
		uv.Score = cfg.BlendLocalWeight*structural + cfg.BlendRiskWeight*(10-v.RiskScore)
		uv.RiskLevel = models.RiskModerate
	case v.RiskScore > 0:
		uv.Score = structural
		uv.RiskLevel = models.RiskLow
	default:
		uv.Score = structural
		uv.RiskLevel = models.RiskNone
	}

	switch {
	case uv.Score >= 7:
		uv.Verdict = VerdictRecommended
	case uv.Score >= 5:
		uv.Verdict = VerdictNeedsRevision
	case uv.Score >= 3:
		uv.Verdict = VerdictNotRecommended
	default:
		uv.Verdict = VerdictDangerous
	}

	return uv
}
