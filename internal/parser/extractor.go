package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/embeddings"
)

// Extractor parses system prompts into requirement sets. Parameter
// classification is semantic: candidate phrases are embedded and matched
// against precomputed anchor exemplars, so "departure city" and "origin"
// land on the same parameter without hardcoded synonyms.
type Extractor struct {
	provider *embeddings.Provider
	cfg      *config.ParserConfig
	anchors  *embeddings.AnchorSet
	keywords *KeywordExtractor
}

// NewExtractor precomputes the parameter anchor embeddings. Anchor failure
// here means the embedding backend is unusable, so callers treat it as
// fatal.
func NewExtractor(ctx context.Context, provider *embeddings.Provider, cfg *config.ParserConfig) (*Extractor, error) {
	anchors, err := provider.PrecomputeAnchors(ctx, parameterAnchors)
	if err != nil {
		return nil, fmt.Errorf("precomputing parameter anchors: %w", err)
	}
	return &Extractor{
		provider: provider,
		cfg:      cfg,
		anchors:  anchors,
		keywords: NewKeywordExtractor(),
	}, nil
}

var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+\.)\s*`)

// Parse extracts the requirement set from a system prompt.
func (e *Extractor) Parse(ctx context.Context, systemText string) (*RequirementSet, error) {
	rs := &RequirementSet{
		Domain:           e.inferDomain(systemText),
		PrimaryObjective: e.extractObjective(systemText),
	}

	section := ""
	byName := make(map[string]int)
	var lines []string

	for lineNo, raw := range strings.Split(systemText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)

		switch {
		case requiredSectionRe.MatchString(line):
			section = "required"
		case optionalSectionRe.MatchString(line):
			section = "optional"
		}

		// every line is a parameter candidate; outside a required section
		// a hard-constraint cue on the line still makes the match required
		required := section == "required" || hasHardConstraintCue(line)
		params, err := e.matchParameters(ctx, line, required)
		if err != nil {
			return nil, err
		}
		for _, p := range params {
			if i, seen := byName[p.Name]; seen {
				// keep the strongest match, required status is sticky
				if p.Confidence > rs.Parameters[i].Confidence {
					rs.Parameters[i].Confidence = p.Confidence
					rs.Parameters[i].SourceText = p.SourceText
				}
				rs.Parameters[i].Required = rs.Parameters[i].Required || p.Required
				continue
			}
			byName[p.Name] = len(rs.Parameters)
			rs.Parameters = append(rs.Parameters, p)
		}

		for _, req := range classifyLine(line, lineNo+1, e.cfg) {
			rs.Requirements = append(rs.Requirements, req)
		}
	}

	for _, kw := range e.keywords.ExtractKeywords(lines, maxPromptKeywords) {
		rs.Keywords = append(rs.Keywords, kw.Word)
	}

	return rs, nil
}

// maxPromptKeywords caps the TF-IDF terms surfaced per prompt.
const maxPromptKeywords = 10

func hasHardConstraintCue(line string) bool {
	for _, re := range hardConstraintRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// matchParameters extracts candidate phrases from a line and classifies
// each against the anchor set. Phrases below the threshold stay
// unclassified.
func (e *Extractor) matchParameters(ctx context.Context, line string, required bool) ([]Parameter, error) {
	var params []Parameter
	for _, phrase := range candidatePhrases(line) {
		vec, err := e.provider.Encode(ctx, phrase)
		if err != nil {
			return nil, fmt.Errorf("embedding candidate %q: %w", phrase, err)
		}
		name, score, ok := e.anchors.BestMatch(vec)
		if !ok || score < e.cfg.AnchorThreshold {
			continue
		}
		params = append(params, Parameter{
			Name:       name,
			Required:   required,
			Confidence: score,
			SourceText: phrase,
		})
	}
	return params, nil
}

// candidatePhrases strips list decoration from a line and splits it into
// classifiable fragments.
func candidatePhrases(line string) []string {
	line = bulletRe.ReplaceAllString(line, "")
	if i := strings.Index(line, ":"); i >= 0 {
		line = line[i+1:]
	}
	line = strings.ReplaceAll(line, " and ", ",")

	var phrases []string
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(strings.Trim(part, ".,;"))
		if len(part) >= 3 {
			phrases = append(phrases, part)
		}
	}
	return phrases
}

// classifyLine tags a line with every requirement kind it matches.
func classifyLine(line string, lineNo int, cfg *config.ParserConfig) []Requirement {
	var reqs []Requirement
	negated := negationRe.MatchString(line)

	for _, re := range scopeRes {
		if re.MatchString(line) {
			reqs = append(reqs, Requirement{
				Kind: KindScope, Text: line, Confidence: cfg.ScopeConfidence,
				Negated: negated, Line: lineNo,
			})
			break
		}
	}

	if safetyRe.MatchString(line) {
		reqs = append(reqs, Requirement{
			Kind: KindSafety, Text: line, Confidence: cfg.SafetyConfidence,
			Negated: negated, Line: lineNo,
		})
	}

	if outputFormatRe.MatchString(line) && !outputFormatExcludeRe.MatchString(line) {
		reqs = append(reqs, Requirement{
			Kind: KindOutputFormat, Text: line, Confidence: cfg.OutputFormatConfidence,
			Negated: negated, Line: lineNo,
		})
	}

	if hasHardConstraintCue(line) {
		reqs = append(reqs, Requirement{
			Kind: KindHardConstraint, Text: line, Confidence: cfg.HardConstraintConfidence,
			Negated: negated, Line: lineNo,
		})
	} else {
		for _, re := range softConstraintRes {
			if re.MatchString(line) {
				reqs = append(reqs, Requirement{
					Kind: KindSoftConstraint, Text: line, Confidence: cfg.SoftConstraintConfidence,
					Negated: negated, Line: lineNo,
				})
				break
			}
		}
	}

	return reqs
}

// extractObjective pulls the primary objective from role statements.
func (e *Extractor) extractObjective(text string) string {
	for _, re := range primaryObjectiveRes {
		if m := re.FindStringSubmatch(text); m != nil {
			obj := strings.TrimSpace(m[1])
			if obj != "" {
				return obj
			}
		}
	}
	return ""
}

// inferDomain scores the prompt vocabulary against each known domain. Ties
// go to the first registered domain; no hits means "general".
func (e *Extractor) inferDomain(text string) string {
	tokens := e.keywords.Tokenize(text)

	best := "general"
	bestHits := 0
	for _, entry := range domainKeywords {
		set := make(map[string]bool, len(entry.keywords))
		for _, kw := range entry.keywords {
			set[kw] = true
		}
		hits := 0
		for _, tok := range tokens {
			if set[tok] {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = entry.name
		}
	}
	return best
}
