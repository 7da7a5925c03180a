package alignment

import (
	"regexp"
	"strings"
)

// Value extraction patterns per parameter. Capitalized-word captures stay
// case-sensitive on purpose so "from New York to London" splits at the
// lowercase connective.
var (
	originRe      = regexp.MustCompile(`\b(?:from|From|FROM)\s+([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*)`)
	destinationRe = regexp.MustCompile(`\b(?:to|To|TO)\s+([A-Z][a-zA-Z]*(?:\s+[A-Z][a-zA-Z]*)*)`)

	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(tomorrow|today|tonight)\b`),
		regexp.MustCompile(`(?i)\bnext\s+(week|month|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`(?i)\b(?:on\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`),
	}

	timeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*(am|pm)\b`),
		regexp.MustCompile(`(?i)\b(morning|afternoon|evening|noon|midnight)\b`),
	}

	ageRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d{1,3})\s*(?:years?\s+old|yo)\b`),
		regexp.MustCompile(`(?i)\bage\s+(\d{1,3})\b`),
	}

	budgetRes = []*regexp.Regexp{
		regexp.MustCompile(`\$\s*\d+(?:,\d{3})*(?:\.\d+)?`),
		regexp.MustCompile(`(?i)\bbudget\s+(?:of\s+|is\s+)?\d+`),
		regexp.MustCompile(`(?i)\bunder\s+\d+\b`),
	}

	quantityRe = regexp.MustCompile(`(?i)\b(\d+)\s+(?:people|persons|passengers|tickets|items|seats|servings)\b`)
)

// extractValue finds a concrete value for the named parameter in user
// text. The generic fallback accepts a bare mention of the parameter name.
func extractValue(param, userText string) (string, bool) {
	switch param {
	case "origin":
		if m := originRe.FindStringSubmatch(userText); m != nil {
			return m[1], true
		}
	case "destination":
		if m := destinationRe.FindStringSubmatch(userText); m != nil {
			return m[1], true
		}
	case "date":
		for _, re := range dateRes {
			if m := re.FindString(userText); m != "" {
				return m, true
			}
		}
	case "time":
		for _, re := range timeRes {
			if m := re.FindString(userText); m != "" {
				return m, true
			}
		}
	case "age":
		for _, re := range ageRes {
			if m := re.FindStringSubmatch(userText); m != nil {
				return m[1], true
			}
		}
	case "budget":
		for _, re := range budgetRes {
			if m := re.FindString(userText); m != "" {
				return m, true
			}
		}
	case "quantity":
		if m := quantityRe.FindStringSubmatch(userText); m != nil {
			return m[1], true
		}
	}

	// generic fallback: a literal mention of the parameter counts
	name := strings.ReplaceAll(param, "_", " ")
	if strings.Contains(strings.ToLower(userText), name) {
		return "mentioned", true
	}
	return "", false
}

// Intent labels inferred from user text.
var intentPatterns = []struct {
	intent string
	re     *regexp.Regexp
}{
	{"booking", regexp.MustCompile(`(?i)\b(book|reserve|purchase|buy|order)\b`)},
	{"modification", regexp.MustCompile(`(?i)\b(change|modify|update|cancel|reschedule)\b`)},
	{"help_request", regexp.MustCompile(`(?i)\b(help|assist|support)\b|how do i`)},
	{"inquiry", regexp.MustCompile(`(?i)\b(what|when|where|which|why|tell me)\b|\?`)},
}

func inferIntent(userText string) string {
	for _, p := range intentPatterns {
		if p.re.MatchString(userText) {
			return p.intent
		}
	}
	return "general"
}
