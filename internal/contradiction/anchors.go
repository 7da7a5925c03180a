package contradiction

import (
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

// negationWords flip a directive's polarity.
var negationWords = map[string]bool{
	"never": true, "not": true, "don't": true, "cannot": true,
	"can't": true, "won't": true, "shouldn't": true, "mustn't": true,
	"no": true, "none": true, "neither": true, "nor": true,
	"avoid": true, "refrain": true, "prohibit": true, "forbidden": true,
}

// negationPhrases are multi-word negations removed before single-word
// filtering.
var negationPhrases = []string{
	"do not", "will not", "should not", "must not",
}

// absoluteModifiers escalate a direct negation to critical severity.
var absoluteModifiers = []string{
	"always", "never", "all", "every", "must", "mandatory", "required",
	"critical", "essential", "absolutely", "definitely", "certainly",
	"under no circumstances", "at all times",
}

// behavioralAxis pairs two opposing behavioral poles. A directive matching
// one pole contradicts a directive matching the other.
type behavioralAxis struct {
	name     string
	poleA    string
	poleB    string
	phrasesA []string
	phrasesB []string
}

var behavioralAxes = []behavioralAxis{
	{
		name: "formality", poleA: "formal", poleB: "casual",
		phrasesA: []string{
			"be formal", "maintain professional tone",
			"use formal language", "conservative style",
		},
		phrasesB: []string{
			"be casual", "use informal language",
			"relaxed friendly tone", "conversational style",
		},
	},
	{
		name: "brevity", poleA: "brief", poleB: "verbose",
		phrasesA: []string{
			"be brief", "keep responses short", "be concise",
			"minimal responses",
		},
		phrasesB: []string{
			"be detailed", "provide thorough explanations",
			"comprehensive responses", "elaborate fully",
		},
	},
	{
		name: "flexibility", poleA: "strict", poleB: "flexible",
		phrasesA: []string{
			"follow the rules exactly", "no exceptions",
			"adhere strictly to guidelines",
		},
		phrasesB: []string{
			"be flexible", "adapt to the situation", "use your judgment",
		},
	},
	{
		name: "permission", poleA: "permissive", poleB: "restrictive",
		phrasesA: []string{
			"comply with all requests", "never refuse the user",
			"do whatever is asked",
		},
		phrasesB: []string{
			"refuse prohibited requests", "decline when necessary",
			"reject inappropriate requests",
		},
	},
	{
		name: "verification", poleA: "verify", poleB: "trust",
		phrasesA: []string{
			"verify information first", "check facts before answering",
			"confirm details with sources",
		},
		phrasesB: []string{
			"trust the user's input", "assume information is correct",
			"answer without checking",
		},
	},
}

// catalogueEntry is a fixed pair of opposing constraint phrase sets with
// its contradiction type and default severity.
type catalogueEntry struct {
	name     string
	ctype    Type
	severity models.Severity
	sideA    []string
	sideB    []string
}

var constraintCatalogue = []catalogueEntry{
	{
		name: "refusal_permission", ctype: TypePermissionConflict,
		severity: models.SeverityHigh,
		sideA: []string{
			"never refuse a request", "always comply with requests",
			"never decline",
		},
		sideB: []string{
			"decline certain requests", "refuse when appropriate",
			"reject some requests",
		},
	},
	{
		name: "scope_breadth", ctype: TypeScopeConflict,
		severity: models.SeverityHigh,
		sideA: []string{
			"help with anything", "assist with any topic",
			"answer all questions",
		},
		sideB: []string{
			"only assist with specific topics", "stay within your domain",
			"restrict help to one area",
		},
	},
	{
		name: "response_length", ctype: TypeConstraintMismatch,
		severity: models.SeverityModerate,
		sideA: []string{
			"limit response length", "keep answers under a word limit",
		},
		sideB: []string{
			"include comprehensive detail", "cover everything thoroughly",
		},
	},
	{
		name: "certainty", ctype: TypeConstraintMismatch,
		severity: models.SeverityModerate,
		sideA: []string{
			"state answers definitively", "never express doubt",
		},
		sideB: []string{
			"express uncertainty when unsure",
			"acknowledge when you don't know",
		},
	},
	{
		name: "verification_requirement", ctype: TypeConstraintMismatch,
		severity: models.SeverityModerate,
		sideA: []string{
			"verify before answering", "always double check facts",
		},
		sideB: []string{
			"answer immediately without checking", "skip verification",
		},
	},
}
