// Package alignment evaluates a user request against the requirement set
// extracted from a system prompt: which declared parameters it supplies,
// and whether it asks for anything the prompt forbids.
package alignment

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/embeddings"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/parser"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/similarity"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// Result is the outcome of checking one user request.
type Result struct {
	AlignmentScore    float64               `json:"alignment_score"`
	CompletenessScore float64               `json:"completeness_score"`
	VaguenessScore    float64               `json:"vagueness_score"`
	Intent            string                `json:"intent"`
	Extracted         map[string]string     `json:"extracted,omitempty"`
	Missing           []string              `json:"missing,omitempty"`
	Issues            []models.QualityIssue `json:"issues,omitempty"`
	Neutral           bool                  `json:"neutral"`
}

// Evaluator checks user requests against requirement sets.
type Evaluator struct {
	provider *embeddings.Provider
	cfg      *config.AlignmentConfig
}

func NewEvaluator(provider *embeddings.Provider, cfg *config.AlignmentConfig) *Evaluator {
	return &Evaluator{provider: provider, cfg: cfg}
}

// Evaluate scores the user text against the requirement set. An empty user
// text yields a neutral mid-score, not an error.
func (e *Evaluator) Evaluate(ctx context.Context, rs *parser.RequirementSet, userText string) (*Result, error) {
	required := rs.RequiredParameters()

	if strings.TrimSpace(userText) == "" {
		res := &Result{
			AlignmentScore:    5.0,
			CompletenessScore: 5.0,
			Neutral:           true,
			Intent:            "general",
		}
		if len(required) == 0 {
			res.CompletenessScore = 10.0
		}
		return res, nil
	}

	res := &Result{
		Intent:    inferIntent(userText),
		Extracted: make(map[string]string),
	}

	for _, p := range rs.Parameters {
		if value, ok := extractValue(p.Name, userText); ok {
			res.Extracted[p.Name] = value
		} else if p.Required {
			res.Missing = append(res.Missing, p.Name)
			res.Issues = append(res.Issues, models.QualityIssue{
				Category:       "missing_parameter",
				Severity:       models.SeverityCritical,
				Title:          fmt.Sprintf("Missing required parameter: %s", p.Name),
				Description:    fmt.Sprintf("The request does not supply %q, which the system prompt requires.", p.Name),
				Recommendation: fmt.Sprintf("Ask the user to provide the %s.", strings.ReplaceAll(p.Name, "_", " ")),
				Confidence:     0.95,
			})
		}
	}

	res.VaguenessScore = e.vagueness(len(res.Missing), len(required), res.Missing)
	res.CompletenessScore = clamp(10 - res.VaguenessScore)
	if len(required) == 0 {
		res.CompletenessScore = 10.0
		res.VaguenessScore = 0
	}

	constraintScore, scopeScore, safetyScore, err := e.checkViolations(ctx, rs, userText, res)
	if err != nil {
		return nil, err
	}

	res.AlignmentScore = clamp(
		e.cfg.WeightCompleteness*res.CompletenessScore +
			e.cfg.WeightConstraints*constraintScore +
			e.cfg.WeightScope*scopeScore +
			e.cfg.WeightSafety*safetyScore)

	return res, nil
}

// vagueness is a convex penalty on missing required parameters, with a
// bonus penalty when the load-bearing origin/destination pair is absent.
func (e *Evaluator) vagueness(missing, total int, names []string) float64 {
	if total == 0 || missing == 0 {
		return 0
	}
	penalty := 10 * math.Pow(float64(missing)/float64(total), e.cfg.CompletenessExponent)

	has := func(name string) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
	switch {
	case has("origin") && has("destination"):
		penalty += 2.0
	case has("origin") || has("destination"):
		penalty += 1.0
	}
	if has("date") {
		penalty += 0.5
	}
	return clamp(penalty)
}

// checkViolations compares the user text against prohibitions, scope
// limits, and safety rules from the requirement set.
func (e *Evaluator) checkViolations(ctx context.Context, rs *parser.RequirementSet, userText string, res *Result) (constraint, scope, safety float64, err error) {
	constraint, scope, safety = 10.0, 10.0, 10.0

	userVec, err := e.provider.Encode(ctx, userText)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("embedding user text: %w", err)
	}

	for _, req := range rs.Requirements {
		switch req.Kind {
		case parser.KindHardConstraint, parser.KindSoftConstraint:
			if !req.Negated {
				continue
			}
			vec, err := e.provider.Encode(ctx, withoutNegations(req.Text))
			if err != nil {
				return 0, 0, 0, err
			}
			sim := similarity.Cosine(userVec, vec)

			if req.Kind == parser.KindHardConstraint && sim > e.cfg.HardViolationThreshold {
				constraint -= e.cfg.ViolationPenalty
				res.Issues = append(res.Issues, models.QualityIssue{
					Category:       "constraint_violation",
					Severity:       models.SeverityCritical,
					Title:          "Request conflicts with a hard constraint",
					Description:    fmt.Sprintf("The request appears to ask for what %q prohibits.", req.Text),
					Recommendation: "Decline or redirect this part of the request.",
					Confidence:     sim,
				})
			} else if req.Kind == parser.KindSoftConstraint && sim > e.cfg.SoftViolationThreshold {
				constraint -= e.cfg.ViolationPenalty
				res.Issues = append(res.Issues, models.QualityIssue{
					Category:       "constraint_violation",
					Severity:       models.SeverityModerate,
					Title:          "Request conflicts with a soft constraint",
					Description:    fmt.Sprintf("The request runs against the preference %q.", req.Text),
					Recommendation: "Follow the stated preference unless the user insists.",
					Confidence:     sim,
				})
			}

		case parser.KindScope:
			if !req.Negated {
				continue
			}
			vec, err := e.provider.Encode(ctx, withoutNegations(req.Text))
			if err != nil {
				return 0, 0, 0, err
			}
			if sim := similarity.Cosine(userVec, vec); sim > e.cfg.ScopeThreshold {
				scope -= e.cfg.ScopePenalty
				res.Issues = append(res.Issues, models.QualityIssue{
					Category:       "out_of_scope",
					Severity:       models.SeverityHigh,
					Title:          "Request is outside the declared scope",
					Description:    fmt.Sprintf("The request falls under the exclusion %q.", req.Text),
					Recommendation: "Explain the scope limit and suggest an alternative.",
					Confidence:     sim,
				})
			}

		case parser.KindSafety:
			vec, err := e.provider.Encode(ctx, req.Text)
			if err != nil {
				return 0, 0, 0, err
			}
			if sim := similarity.Cosine(userVec, vec); sim > e.cfg.SafetyThreshold {
				safety -= e.cfg.SafetyPenalty
				res.Issues = append(res.Issues, models.QualityIssue{
					Category:       "safety",
					Severity:       models.SeverityHigh,
					Title:          "Request touches a safety rule",
					Description:    fmt.Sprintf("The request is close to the safety rule %q.", req.Text),
					Recommendation: "Apply the safety rule before fulfilling the request.",
					Confidence:     sim,
				})
			}
		}
	}

	return clamp(constraint), clamp(scope), clamp(safety), nil
}

var negationTokens = map[string]bool{
	"never": true, "not": true, "don't": true, "cannot": true, "can't": true,
	"won't": true, "shouldn't": true, "mustn't": true, "no": true,
	"avoid": true, "refrain": true, "prohibit": true, "forbidden": true,
}

// withoutNegations drops negation words so a prohibition embeds as the
// action it forbids.
func withoutNegations(text string) string {
	lower := strings.ToLower(text)
	for _, phrase := range []string{"do not", "will not", "should not", "must not"} {
		lower = strings.ReplaceAll(lower, phrase, " ")
	}
	var kept []string
	for _, word := range strings.Fields(lower) {
		if !negationTokens[strings.Trim(word, ".,!?;:'\"()")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(10, v))
}
