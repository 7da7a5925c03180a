// Package artifacts validates pre-extracted attachment text against the
// prompt pair. Extraction happens upstream; this package only checks that
// what the prompts reference was actually supplied and readable.
package artifacts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// Artifact is one attachment after upstream extraction. Err is set by the
// extracting collaborator when the source could not be read.
type Artifact struct {
	Name          string `json:"name"`
	ExtractedText string `json:"extracted_text"`
	Err           string `json:"error,omitempty"`
}

var fileMentionRe = regexp.MustCompile(`\b[\w-]+\.(?:pdf|png|jpe?g|gif|txt|csv|docx?|xlsx?|md|json)\b`)

// Validate cross-checks supplied artifacts against filename mentions in
// the prompt texts.
func Validate(systemText, userText string, supplied []Artifact) []models.QualityIssue {
	var issues []models.QualityIssue

	byName := make(map[string]Artifact, len(supplied))
	for _, a := range supplied {
		byName[strings.ToLower(a.Name)] = a

		if a.Err != "" {
			issues = append(issues, models.QualityIssue{
				Category:       "artifact_unreadable",
				Severity:       models.SeverityHigh,
				Title:          fmt.Sprintf("Artifact %q could not be read", a.Name),
				Description:    a.Err,
				Recommendation: "Re-supply the artifact in a readable format.",
				Confidence:     1.0,
			})
			continue
		}
		if strings.TrimSpace(a.ExtractedText) == "" {
			issues = append(issues, models.QualityIssue{
				Category:       "artifact_empty",
				Severity:       models.SeverityModerate,
				Title:          fmt.Sprintf("Artifact %q has no extractable text", a.Name),
				Description:    "The artifact was supplied but yielded no text to analyze.",
				Recommendation: "Check whether the artifact actually carries the intended content.",
				Confidence:     0.9,
			})
		}
	}

	seen := make(map[string]bool)
	for _, mention := range fileMentionRe.FindAllString(systemText+" "+userText, -1) {
		key := strings.ToLower(mention)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := byName[key]; !ok {
			issues = append(issues, models.QualityIssue{
				Category:       "missing_artifact",
				Severity:       models.SeverityHigh,
				Title:          fmt.Sprintf("Referenced artifact %q was not supplied", mention),
				Description:    "The prompt refers to a file that is not among the supplied artifacts.",
				Recommendation: "Attach the file or remove the reference.",
				Confidence:     0.85,
			})
		}
	}

	return issues
}
