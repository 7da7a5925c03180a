// Package parser extracts structured requirements from system prompt text:
// expected parameters, behavioral constraints, scope statements, output
// format rules, and safety rules.
package parser

// RequirementKind classifies an extracted requirement.
type RequirementKind string

const (
	KindHardConstraint RequirementKind = "hard_constraint"
	KindSoftConstraint RequirementKind = "soft_constraint"
	KindScope          RequirementKind = "scope"
	KindOutputFormat   RequirementKind = "output_format"
	KindSafety         RequirementKind = "safety"
)

// Requirement is a single extracted behavioral rule.
type Requirement struct {
	Kind       RequirementKind `json:"kind"`
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"`
	Negated    bool            `json:"negated"`
	Line       int             `json:"line"`
}

// Parameter is a piece of information the prompt expects from the user.
type Parameter struct {
	Name       string  `json:"name"`
	Required   bool    `json:"required"`
	Confidence float64 `json:"confidence"`
	SourceText string  `json:"source_text"`
}

// RequirementSet is the full parse result for one system prompt.
type RequirementSet struct {
	Domain           string        `json:"domain"`
	PrimaryObjective string        `json:"primary_objective"`
	Parameters       []Parameter   `json:"parameters"`
	Requirements     []Requirement `json:"requirements"`

	// Keywords are the top TF-IDF terms of the prompt, most significant
	// first.
	Keywords []string `json:"keywords,omitempty"`
}

// RequiredParameters returns the names of required parameters in
// extraction order.
func (rs *RequirementSet) RequiredParameters() []string {
	var names []string
	for _, p := range rs.Parameters {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// OfKind returns the requirements of the given kind in extraction order.
func (rs *RequirementSet) OfKind(kind RequirementKind) []Requirement {
	var out []Requirement
	for _, r := range rs.Requirements {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
