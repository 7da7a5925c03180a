// Package contradiction finds pairwise conflicts between the directives of
// a system prompt and scores its internal consistency.
package contradiction

import (
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// Type classifies a contradiction between two directives.
type Type string

const (
	TypeDirectNegation     Type = "direct_negation"
	TypeBehavioralConflict Type = "behavioral_conflict"
	TypeConstraintMismatch Type = "constraint_mismatch"
	TypePermissionConflict Type = "permission_conflict"
	TypeScopeConflict      Type = "scope_conflict"
)

// Directive is one instruction statement extracted from system text.
type Directive struct {
	Text     string   `json:"text"`
	Line     int      `json:"line"`
	Negated  bool     `json:"negated"`
	Keywords []string `json:"keywords,omitempty"`
}

// Contradiction is a conflicting pair of directives.
type Contradiction struct {
	Type        Type            `json:"type"`
	Severity    models.Severity `json:"severity"`
	Confidence  float64         `json:"confidence"`
	First       Directive       `json:"first"`
	Second      Directive       `json:"second"`
	Explanation string          `json:"explanation"`
}

// Analysis is the result of consistency checking one system prompt.
type Analysis struct {
	Contradictions   []Contradiction `json:"contradictions"`
	ConsistencyScore float64         `json:"consistency_score"`
	DirectiveCount   int             `json:"directive_count"`
}
