// Package quality runs the full analysis pipeline and merges the component
// results into one QualityReport.
package quality

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/alignment"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/artifacts"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/contradiction"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/deepanalysis"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/parser"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/verbosity"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

const minSystemPromptLength = 10

// ErrSystemPromptTooShort rejects inputs below the minimum length.
var ErrSystemPromptTooShort = fmt.Errorf("system prompt must be at least %d characters", minSystemPromptLength)

// DeepAnalyzer is the optional external risk assessor.
type DeepAnalyzer interface {
	Assess(ctx context.Context, req deepanalysis.Request) (*deepanalysis.Verdict, error)
}

// Request is one analysis call.
type Request struct {
	SystemText   string
	UserText     string
	DeepAnalysis bool
	Artifacts    []artifacts.Artifact
}

// Orchestrator wires the analyzers together. All fields are read-only
// after construction, so one Orchestrator serves concurrent analyses.
type Orchestrator struct {
	cfg       *config.Config
	extractor *parser.Extractor
	detector  *contradiction.Detector
	alignment *alignment.Evaluator
	verbosity *verbosity.Analyzer
	bridge    DeepAnalyzer
}

// NewOrchestrator assembles the pipeline. bridge may be nil; deep-analysis
// requests then degrade.
func NewOrchestrator(cfg *config.Config, extractor *parser.Extractor, detector *contradiction.Detector,
	alignEval *alignment.Evaluator, verbAnalyzer *verbosity.Analyzer, bridge DeepAnalyzer) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		extractor: extractor,
		detector:  detector,
		alignment: alignEval,
		verbosity: verbAnalyzer,
		bridge:    bridge,
	}
}

// Analyze runs the structural analyzers in parallel, merges their scores,
// and optionally refines the result through deep analysis.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*models.QualityReport, error) {
	if len(strings.TrimSpace(req.SystemText)) < minSystemPromptLength {
		return nil, ErrSystemPromptTooShort
	}

	var (
		alignRes *alignment.Result
		detRes   *contradiction.Analysis
		verbRes  *verbosity.Result
		reqSet   *parser.RequirementSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reqSet, err = o.extractor.Parse(gctx, req.SystemText)
		if err != nil {
			return err
		}
		// evaluation depends on the parsed requirement set
		alignRes, err = o.alignment.Evaluate(gctx, reqSet, req.UserText)
		return err
	})
	g.Go(func() error {
		var err error
		detRes, err = o.detector.Detect(gctx, req.SystemText)
		return err
	})
	g.Go(func() error {
		verbRes = o.verbosity.Analyze(req.SystemText)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &models.QualityReport{
		ID: uuid.New().String(),
		Scores: models.ComponentScores{
			Alignment:    alignRes.AlignmentScore,
			Consistency:  detRes.ConsistencyScore,
			Verbosity:    verbRes.VerbosityScore,
			Completeness: alignRes.CompletenessScore,
		},
		Domain:        reqSet.Domain,
		Keywords:      reqSet.Keywords,
		MissingParams: alignRes.Missing,
	}

	report.Issues = o.collectIssues(detRes, alignRes, verbRes, req)
	report.IssueCounts = countIssues(report.Issues)
	report.OverallScore = o.overall(report.Scores, req.UserText)
	report.QualityRating = o.rating(report.OverallScore)
	report.IsFulfillable = report.IssueCounts.Critical == 0 && len(alignRes.Missing) == 0

	if req.DeepAnalysis {
		o.runDeepAnalysis(ctx, req, report)
	}

	return report, nil
}

// collectIssues flattens all analyzer findings, most severe first.
func (o *Orchestrator) collectIssues(detRes *contradiction.Analysis, alignRes *alignment.Result,
	verbRes *verbosity.Result, req Request) []models.QualityIssue {

	issues := make([]models.QualityIssue, 0,
		len(detRes.Contradictions)+len(alignRes.Issues)+len(verbRes.BuriedDirectives))

	for _, c := range detRes.Contradictions {
		issues = append(issues, contradictionIssue(c))
	}
	issues = append(issues, alignRes.Issues...)
	issues = append(issues, verbRes.BuriedDirectives...)
	issues = append(issues, artifacts.Validate(req.SystemText, req.UserText, req.Artifacts)...)

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() > issues[j].Severity.Rank()
	})
	return issues
}

func contradictionIssue(c contradiction.Contradiction) models.QualityIssue {
	return models.QualityIssue{
		Category: "contradiction",
		Severity: c.Severity,
		Title:    fmt.Sprintf("Contradictory directives (%s)", c.Type),
		Description: fmt.Sprintf("%s: %q (line %d) vs %q (line %d)",
			c.Explanation, c.First.Text, c.First.Line, c.Second.Text, c.Second.Line),
		Recommendation: "Rewrite the directives so only one behavior is required.",
		Confidence:     c.Confidence,
	}
}

func countIssues(issues []models.QualityIssue) models.IssueCounts {
	counts := models.IssueCounts{Total: len(issues)}
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityCritical:
			counts.Critical++
		case models.SeverityHigh:
			counts.High++
		case models.SeverityModerate:
			counts.Moderate++
		case models.SeverityLow:
			counts.Low++
		}
	}
	return counts
}

// overall combines the component scores. Without user text the alignment
// and completeness components are neutral placeholders, so only the
// structural pair is weighted.
func (o *Orchestrator) overall(s models.ComponentScores, userText string) float64 {
	w := o.cfg.Scoring
	if strings.TrimSpace(userText) == "" {
		return w.SoloWeightConsistency*s.Consistency + w.SoloWeightVerbosity*s.Verbosity
	}
	return w.WeightAlignment*s.Alignment +
		w.WeightConsistency*s.Consistency +
		w.WeightCompleteness*s.Completeness +
		w.WeightVerbosity*s.Verbosity
}

func (o *Orchestrator) rating(score float64) models.QualityRating {
	w := o.cfg.Scoring
	switch {
	case score >= w.BandExcellent:
		return models.RatingExcellent
	case score >= w.BandGood:
		return models.RatingGood
	case score >= w.BandFair:
		return models.RatingFair
	case score >= w.BandPoor:
		return models.RatingPoor
	default:
		return models.RatingCritical
	}
}

// runDeepAnalysis attaches a unified verdict, or marks the report degraded
// when the bridge is unavailable or fails. It never fails the analysis.
func (o *Orchestrator) runDeepAnalysis(ctx context.Context, req Request, report *models.QualityReport) {
	if o.bridge == nil {
		report.DegradedMode = true
		report.DegradedNote = "deep analysis requested but no bridge is configured"
		return
	}

	summaries := make([]deepanalysis.IssueSummary, 0, len(report.Issues))
	for _, issue := range report.Issues {
		summaries = append(summaries, deepanalysis.IssueSummary{
			Category:   issue.Category,
			Severity:   issue.Severity,
			Title:      issue.Title,
			Confidence: issue.Confidence,
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Bridge.Timeout.Std())
	defer cancel()

	verdict, err := o.bridge.Assess(callCtx, deepanalysis.Request{
		SystemText: req.SystemText,
		UserText:   req.UserText,
		Issues:     summaries,
	})
	if err != nil {
		report.DegradedMode = true
		if errors.Is(err, context.DeadlineExceeded) {
			report.DegradedNote = "deep analysis timed out"
		} else {
			report.DegradedNote = "deep analysis failed: " + err.Error()
		}
		return
	}

	report.Unified = MergeVerdict(report.OverallScore, verdict, &o.cfg.Bridge)
}
