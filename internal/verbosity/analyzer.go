// Package verbosity scores the structural economy of a system prompt:
// length, redundancy, directive density, and whether critical rules are
// buried at the end of long text.
package verbosity

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// Result is the verbosity breakdown for one system prompt.
type Result struct {
	VerbosityScore   float64               `json:"verbosity_score"`
	WordCount        int                   `json:"word_count"`
	SentenceCount    int                   `json:"sentence_count"`
	DirectiveCount   int                   `json:"directive_count"`
	FillerCount      int                   `json:"filler_count"`
	RedundantPairs   int                   `json:"redundant_pairs"`
	BuriedDirectives []models.QualityIssue `json:"buried_directives,omitempty"`
	Recommendations  []string              `json:"recommendations,omitempty"`
}

var fillerPhrases = []string{
	"it is important that", "it is important to", "you should always",
	"make sure to", "remember to", "please note that", "keep in mind that",
	"it should be noted", "as mentioned before", "in order to",
	"at the end of the day", "needless to say",
}

var criticalKeywords = []string{
	"must", "must not", "never", "always", "prohibited", "required",
	"mandatory", "forbidden", "critical", "essential", "do not",
	"cannot", "shall not",
}

var directiveRe = regexp.MustCompile(`(?i)\b(must|should|never|always|do not|don't|ensure|avoid|cannot|required|make sure|prohibited|forbidden)\b`)

var sentenceSplitRe = regexp.MustCompile(`[.!?;\n]+`)

// Analyzer scores prompts for verbosity. It is purely statistical and
// needs no embedding backend.
type Analyzer struct {
	cfg *config.VerbosityConfig
}

func NewAnalyzer(cfg *config.VerbosityConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

type sentence struct {
	text      string
	words     []string
	wordStart int
}

// Analyze computes the verbosity score and flags buried critical
// directives.
func (a *Analyzer) Analyze(systemText string) *Result {
	sentences := splitSentences(systemText)

	res := &Result{SentenceCount: len(sentences)}
	for _, s := range sentences {
		res.WordCount += len(s.words)
		if directiveRe.MatchString(s.text) {
			res.DirectiveCount++
		}
	}
	res.FillerCount = countFillers(systemText)

	lengthPenalty := a.lengthPenalty(res.WordCount)
	redundancyPenalty, redundantPairs := a.redundancyPenalty(sentences)
	res.RedundantPairs = redundantPairs

	density := 0.0
	if len(sentences) > 0 {
		density = float64(res.DirectiveCount) / float64(len(sentences))
	}
	densityPenalty := (1 - density) * 10

	res.BuriedDirectives = a.findBuried(sentences, res.WordCount)
	burialPenalty := math.Min(float64(len(res.BuriedDirectives))*2, 10)

	penalty := a.cfg.WeightLength*lengthPenalty +
		a.cfg.WeightRedundancy*redundancyPenalty +
		a.cfg.WeightDensity*densityPenalty +
		a.cfg.WeightBurial*burialPenalty

	score := math.Max(0, math.Min(10, 10-penalty))
	if res.DirectiveCount == 0 {
		// prose with no recognizable instructions is structurally weak
		// however short it is
		score *= a.cfg.UnstructuredFactor
	}
	res.VerbosityScore = score

	res.Recommendations = a.recommend(res, lengthPenalty)
	return res
}

// lengthPenalty is zero through the optimal range and grows monotonically
// with word count past it.
func (a *Analyzer) lengthPenalty(words int) float64 {
	optMax := a.cfg.OptimalMaxWords
	hardMax := a.cfg.MaxWords
	switch {
	case words <= optMax:
		return 0
	case words <= hardMax:
		return 5 * float64(words-optMax) / float64(hardMax-optMax)
	default:
		return math.Min(10, 5+5*float64(words-hardMax)/float64(hardMax))
	}
}

// redundancyPenalty counts near-duplicate sentence pairs (word-set Jaccard
// above threshold) and repeated trigrams.
func (a *Analyzer) redundancyPenalty(sentences []sentence) (float64, int) {
	pairs := 0
	for i := 0; i < len(sentences); i++ {
		for j := i + 1; j < len(sentences); j++ {
			if jaccard(sentences[i].words, sentences[j].words) > a.cfg.RedundancyJaccard {
				pairs++
			}
		}
	}

	trigrams := make(map[string]int)
	repeated := 0
	for _, s := range sentences {
		for k := 0; k+3 <= len(s.words); k++ {
			key := strings.Join(s.words[k:k+3], " ")
			trigrams[key]++
			if trigrams[key] == 2 {
				repeated++
			}
		}
	}

	return math.Min(10, float64(pairs)*2+float64(repeated)), pairs
}

// findBuried flags critical directives that appear past the configured
// percentile of the text.
func (a *Analyzer) findBuried(sentences []sentence, totalWords int) []models.QualityIssue {
	if totalWords == 0 {
		return nil
	}
	cutoff := int(float64(totalWords) * a.cfg.BurialPercentile)

	var issues []models.QualityIssue
	for _, s := range sentences {
		if s.wordStart < cutoff || !isCritical(s.text) {
			continue
		}
		issues = append(issues, models.QualityIssue{
			Category:       "buried_directive",
			Severity:       models.SeverityHigh,
			Title:          "Critical directive buried late in the prompt",
			Description:    fmt.Sprintf("%q appears after most of the prompt text.", s.text),
			Recommendation: "Move critical rules toward the top of the prompt.",
			Confidence:     0.9,
		})
	}
	return issues
}

func (a *Analyzer) recommend(res *Result, lengthPenalty float64) []string {
	var recs []string
	if lengthPenalty > 0 {
		recs = append(recs, fmt.Sprintf(
			"Shorten the prompt: %d words, aim for %d-%d.",
			res.WordCount, a.cfg.OptimalMinWords, a.cfg.OptimalMaxWords))
	}
	if res.FillerCount > 0 {
		recs = append(recs, fmt.Sprintf("Remove %d filler phrases.", res.FillerCount))
	}
	if res.RedundantPairs > 0 {
		recs = append(recs, fmt.Sprintf("Merge %d near-duplicate sentences.", res.RedundantPairs))
	}
	if res.DirectiveCount == 0 {
		recs = append(recs, "Add explicit directives stating what the assistant must and must not do.")
	}
	return recs
}

func splitSentences(text string) []sentence {
	var out []sentence
	offset := 0
	for _, chunk := range sentenceSplitRe.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		words := strings.Fields(strings.ToLower(chunk))
		out = append(out, sentence{text: chunk, words: words, wordStart: offset})
		offset += len(words)
	}
	return out
}

func countFillers(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, phrase := range fillerPhrases {
		count += strings.Count(lower, phrase)
	}
	return count
}

func isCritical(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range criticalKeywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		for _, word := range strings.Fields(lower) {
			if strings.Trim(word, ".,!?;:'\"()") == kw {
				return true
			}
		}
	}
	return false
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, w := range a {
		setA[w] = true
	}
	setB := make(map[string]bool, len(b))
	for _, w := range b {
		setB[w] = true
	}
	inter := 0
	for w := range setA {
		if setB[w] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}
