package contradiction

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/embeddings"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/parser"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/similarity"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// Detector runs pairwise contradiction checks over the directives of a
// system prompt.
type Detector struct {
	provider  *embeddings.Provider
	cfg       *config.ContradictionConfig
	poles     *embeddings.AnchorSet
	catalogue *embeddings.AnchorSet
	keywords  *parser.KeywordExtractor
}

// NewDetector precomputes the behavioral pole and constraint catalogue
// anchors.
func NewDetector(ctx context.Context, provider *embeddings.Provider, cfg *config.ContradictionConfig) (*Detector, error) {
	poleSpec := embeddings.AnchorSpec{}
	for _, axis := range behavioralAxes {
		poleSpec[axis.name+"/"+axis.poleA] = axis.phrasesA
		poleSpec[axis.name+"/"+axis.poleB] = axis.phrasesB
	}
	poles, err := provider.PrecomputeAnchors(ctx, poleSpec)
	if err != nil {
		return nil, fmt.Errorf("precomputing behavioral poles: %w", err)
	}

	catSpec := embeddings.AnchorSpec{}
	for _, entry := range constraintCatalogue {
		catSpec[entry.name+"/a"] = entry.sideA
		catSpec[entry.name+"/b"] = entry.sideB
	}
	catalogue, err := provider.PrecomputeAnchors(ctx, catSpec)
	if err != nil {
		return nil, fmt.Errorf("precomputing constraint catalogue: %w", err)
	}

	return &Detector{
		provider:  provider,
		cfg:       cfg,
		poles:     poles,
		catalogue: catalogue,
		keywords:  parser.NewKeywordExtractor(),
	}, nil
}

// Detect segments the prompt into directives and checks every unordered
// pair. Fewer than two directives is a clean result, not an error.
func (d *Detector) Detect(ctx context.Context, systemText string) (*Analysis, error) {
	directives := d.Segment(systemText)
	analysis := &Analysis{
		ConsistencyScore: 10.0,
		DirectiveCount:   len(directives),
	}
	if len(directives) < 2 {
		return analysis, nil
	}

	// embed original and negation-stripped forms up front
	texts := make([]string, 0, len(directives)*2)
	for _, dir := range directives {
		texts = append(texts, dir.Text, stripNegations(dir.Text))
	}
	vecs, err := d.provider.EncodeBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding directives: %w", err)
	}
	original := make([][]float32, len(directives))
	stripped := make([][]float32, len(directives))
	for i := range directives {
		original[i] = vecs[2*i]
		stripped[i] = vecs[2*i+1]
	}

	for i := 0; i < len(directives); i++ {
		for j := i + 1; j < len(directives); j++ {
			// first matching check wins, one finding per pair
			if c, ok := d.checkDirectNegation(directives[i], directives[j], stripped[i], stripped[j]); ok {
				analysis.Contradictions = append(analysis.Contradictions, c)
				continue
			}
			if c, ok := d.checkBehavioral(directives[i], directives[j], original[i], original[j]); ok {
				analysis.Contradictions = append(analysis.Contradictions, c)
				continue
			}
			if c, ok := d.checkCatalogue(directives[i], directives[j], original[i], original[j]); ok {
				analysis.Contradictions = append(analysis.Contradictions, c)
			}
		}
	}

	analysis.ConsistencyScore = d.score(analysis.Contradictions)
	return analysis, nil
}

func (d *Detector) score(found []Contradiction) float64 {
	score := 10.0
	for _, c := range found {
		switch c.Severity {
		case models.SeverityCritical:
			score -= d.cfg.PenaltyCritical
		case models.SeverityHigh:
			score -= d.cfg.PenaltyHigh
		case models.SeverityModerate:
			score -= d.cfg.PenaltyModerate
		case models.SeverityLow:
			score -= d.cfg.PenaltyLow
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

func (d *Detector) checkDirectNegation(a, b Directive, strippedA, strippedB []float32) (Contradiction, bool) {
	if a.Negated == b.Negated {
		return Contradiction{}, false
	}
	sim := similarity.Cosine(strippedA, strippedB)
	if sim < d.cfg.NegationThreshold {
		return Contradiction{}, false
	}

	severity := models.SeverityHigh
	if hasAbsoluteModifier(a.Text) || hasAbsoluteModifier(b.Text) {
		severity = models.SeverityCritical
	}
	return Contradiction{
		Type:       TypeDirectNegation,
		Severity:   severity,
		Confidence: sim,
		First:      a,
		Second:     b,
		Explanation: fmt.Sprintf(
			"one directive negates what the other requires (similarity %.2f after removing negations)", sim),
	}, true
}

func (d *Detector) checkBehavioral(a, b Directive, vecA, vecB []float32) (Contradiction, bool) {
	for _, axis := range behavioralAxes {
		keyA := axis.name + "/" + axis.poleA
		keyB := axis.name + "/" + axis.poleB

		simAtoA := d.poles.MaxSimilarity(vecA, keyA)
		simAtoB := d.poles.MaxSimilarity(vecA, keyB)
		simBtoA := d.poles.MaxSimilarity(vecB, keyA)
		simBtoB := d.poles.MaxSimilarity(vecB, keyB)

		// each directive must sit clearly on one pole, and on opposite ones
		if simAtoA >= d.cfg.ConflictThreshold && simBtoB >= d.cfg.ConflictThreshold &&
			simAtoA > simAtoB && simBtoB > simBtoA {
			return d.behavioralFinding(a, b, axis, axis.poleA, axis.poleB, min(simAtoA, simBtoB)), true
		}
		if simAtoB >= d.cfg.ConflictThreshold && simBtoA >= d.cfg.ConflictThreshold &&
			simAtoB > simAtoA && simBtoA > simBtoB {
			return d.behavioralFinding(a, b, axis, axis.poleB, axis.poleA, min(simAtoB, simBtoA)), true
		}
	}
	return Contradiction{}, false
}

func (d *Detector) behavioralFinding(a, b Directive, axis behavioralAxis, poleA, poleB string, conf float64) Contradiction {
	return Contradiction{
		Type:       TypeBehavioralConflict,
		Severity:   models.SeverityHigh,
		Confidence: conf,
		First:      a,
		Second:     b,
		Explanation: fmt.Sprintf(
			"directives pull toward opposite %s poles (%q vs %q)", axis.name, poleA, poleB),
	}
}

func (d *Detector) checkCatalogue(a, b Directive, vecA, vecB []float32) (Contradiction, bool) {
	for _, entry := range constraintCatalogue {
		simAtoA := d.catalogue.MaxSimilarity(vecA, entry.name+"/a")
		simBtoB := d.catalogue.MaxSimilarity(vecB, entry.name+"/b")
		simAtoB := d.catalogue.MaxSimilarity(vecA, entry.name+"/b")
		simBtoA := d.catalogue.MaxSimilarity(vecB, entry.name+"/a")

		var conf float64
		switch {
		case simAtoA >= d.cfg.ConflictThreshold && simBtoB >= d.cfg.ConflictThreshold:
			conf = min(simAtoA, simBtoB)
		case simAtoB >= d.cfg.ConflictThreshold && simBtoA >= d.cfg.ConflictThreshold:
			conf = min(simAtoB, simBtoA)
		default:
			continue
		}

		severity := entry.severity
		if severity == models.SeverityModerate && conf >= d.cfg.ConstraintHighConfidence {
			severity = models.SeverityHigh
		}
		return Contradiction{
			Type:       entry.ctype,
			Severity:   severity,
			Confidence: conf,
			First:      a,
			Second:     b,
			Explanation: fmt.Sprintf(
				"directives take opposite sides of the %s constraint", entry.name),
		}, true
	}
	return Contradiction{}, false
}

var (
	headerRe    = regexp.MustCompile(`^[#=]`)
	separatorRe = regexp.MustCompile(`^[-=*_\s]+$`)
	bulletRe    = regexp.MustCompile(`^\s*(?:[-*•]|\d+\.)\s*`)
	sentenceRe  = regexp.MustCompile(`[.!;]\s+`)

	directiveRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(must|should|need to|have to|required to)\b`),
		regexp.MustCompile(`(?i)\b(never|always|don't|do not|cannot)\b`),
		regexp.MustCompile(`(?i)\b(ensure|make sure|remember to|be sure to)\b`),
		regexp.MustCompile(`(?i)\b(avoid|refrain|prevent|prohibit)\b`),
		regexp.MustCompile(`(?i)\b(prefer|ideally|recommend|suggest)\b`),
		regexp.MustCompile(`(?i)^(be |provide |maintain |use |keep |give |include |skip |decline |refuse |verify |admit |express )`),
	}
)

// Segment splits system text into directive statements, dropping headers,
// separators, and non-directive prose.
func (d *Detector) Segment(systemText string) []Directive {
	var directives []Directive
	for lineNo, raw := range strings.Split(systemText, "\n") {
		line := strings.TrimSpace(raw)
		if len(line) < 10 || headerRe.MatchString(line) || separatorRe.MatchString(line) {
			continue
		}
		line = bulletRe.ReplaceAllString(line, "")

		for _, sentence := range sentenceRe.Split(line, -1) {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) < 10 || !isDirective(sentence) {
				continue
			}
			directives = append(directives, Directive{
				Text:     sentence,
				Line:     lineNo + 1,
				Negated:  isNegated(sentence),
				Keywords: d.keywords.Tokenize(sentence),
			})
		}
	}
	return directives
}

func isDirective(sentence string) bool {
	for _, re := range directiveRes {
		if re.MatchString(sentence) {
			return true
		}
	}
	return false
}

func isNegated(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range negationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	for _, word := range strings.Fields(lower) {
		if negationWords[trimPunct(word)] {
			return true
		}
	}
	return false
}

// stripNegations removes negation words so two directives can be compared
// on what they talk about rather than their polarity.
func stripNegations(text string) string {
	lower := strings.ToLower(text)
	for _, phrase := range negationPhrases {
		lower = strings.ReplaceAll(lower, phrase, " ")
	}
	var kept []string
	for _, word := range strings.Fields(lower) {
		if !negationWords[trimPunct(word)] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

func hasAbsoluteModifier(text string) bool {
	lower := strings.ToLower(text)
	for _, mod := range absoluteModifiers {
		if strings.Contains(mod, " ") {
			if strings.Contains(lower, mod) {
				return true
			}
			continue
		}
		for _, word := range strings.Fields(lower) {
			if trimPunct(word) == mod {
				return true
			}
		}
	}
	return false
}

func trimPunct(word string) string {
	return strings.Trim(word, ".,!?;:'\"()")
}
