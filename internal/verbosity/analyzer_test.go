package verbosity

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

func newTestAnalyzer() *Analyzer {
	cfg := config.Default()
	return NewAnalyzer(&cfg.Verbosity)
}

func TestAnalyzeUnstructuredPrompt(t *testing.T) {
	res := newTestAnalyzer().Analyze("You are a helpful assistant.")

	if res.DirectiveCount != 0 {
		t.Errorf("directive count %d, want 0", res.DirectiveCount)
	}
	if math.Abs(res.VerbosityScore-2.8) > 1e-9 {
		t.Errorf("score %f, want 2.8", res.VerbosityScore)
	}

	found := false
	for _, rec := range res.Recommendations {
		if strings.Contains(rec, "explicit directives") {
			found = true
		}
	}
	if !found {
		t.Error("expected a recommendation to add directives")
	}
}

func TestAnalyzeStructuredPrompt(t *testing.T) {
	text := `You must greet every customer by name.
Never share account numbers in replies.
Always verify identity before discussing billing.
Avoid speculative answers about refunds.`

	res := newTestAnalyzer().Analyze(text)
	if res.DirectiveCount != 4 {
		t.Errorf("directive count %d, want 4", res.DirectiveCount)
	}
	if res.VerbosityScore < 8 {
		t.Errorf("score %f, want >= 8 for dense short prompt", res.VerbosityScore)
	}
}

func TestAnalyzeRedundancy(t *testing.T) {
	clean := "You must answer in plain english. Never invent prices for items."
	redundant := clean + " You must answer in plain english always."

	a := newTestAnalyzer()
	if a.Analyze(redundant).VerbosityScore >= a.Analyze(clean).VerbosityScore {
		t.Error("near-duplicate sentence did not lower the score")
	}
	if a.Analyze(redundant).RedundantPairs == 0 {
		t.Error("redundant pair not detected")
	}
}

func TestAnalyzeBuriedDirective(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "Here is some gentle background prose about topic number %d for context. ", i)
	}
	b.WriteString("You must never share user data.")

	res := newTestAnalyzer().Analyze(b.String())
	if len(res.BuriedDirectives) != 1 {
		t.Fatalf("expected 1 buried directive, got %d", len(res.BuriedDirectives))
	}
	issue := res.BuriedDirectives[0]
	if issue.Severity != models.SeverityHigh {
		t.Errorf("severity %q, want high", issue.Severity)
	}
	if issue.Category != "buried_directive" {
		t.Errorf("category %q", issue.Category)
	}
}

func TestAnalyzeLongerTextNeverScoresHigher(t *testing.T) {
	directive := func(n int) string {
		var b strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "You must verify record %d before saving. ", i)
		}
		return b.String()
	}

	a := newTestAnalyzer()
	short := a.Analyze(directive(25))
	long := a.Analyze(directive(45))

	if long.VerbosityScore > short.VerbosityScore {
		t.Errorf("longer text scored higher: %f > %f", long.VerbosityScore, short.VerbosityScore)
	}
}

func TestCountFillers(t *testing.T) {
	text := "It is important that you reply fast. Make sure to log out. Remember to smile."
	if got := countFillers(text); got != 3 {
		t.Errorf("filler count %d, want 3", got)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	res := newTestAnalyzer().Analyze("")
	if res.WordCount != 0 || res.SentenceCount != 0 {
		t.Errorf("unexpected counts for empty text: %+v", res)
	}
	if len(res.BuriedDirectives) != 0 {
		t.Error("buried directives from empty text")
	}
}
