package parser

import (
	"regexp"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/embeddings"
)

// parameterAnchors maps parameter names to exemplar phrases. A candidate
// phrase is classified as the parameter whose exemplars it is most similar
// to, if the similarity clears the configured threshold.
var parameterAnchors = embeddings.AnchorSpec{
	"origin": {
		"origin location", "departure city", "starting point",
		"from location", "source location",
	},
	"destination": {
		"destination location", "arrival city", "target location",
		"to location", "place to go",
	},
	"date": {
		"travel date", "departure date", "date of the event",
		"when it happens", "day of travel",
	},
	"time": {
		"time of day", "preferred time", "departure time",
		"arrival time", "schedule time",
	},
	"preference": {
		"user preference", "preferred option", "personal preference",
		"favorite choice", "what the user likes",
	},
	"budget": {
		"budget amount", "price range", "maximum cost",
		"how much to spend", "spending limit",
	},
	"dietary_restriction": {
		"dietary restriction", "food allergy", "dietary requirement",
		"foods to avoid", "eating restriction",
	},
	"age": {
		"age of the person", "how old", "passenger age",
		"user age", "years old",
	},
	"quantity": {
		"number of items", "how many", "quantity needed",
		"amount requested", "count of things",
	},
	"category": {
		"category of item", "type of product", "kind of thing",
		"classification", "which group",
	},
}

// Section cues flip the parser between required and optional parameter
// sections.
var (
	requiredSectionRe = regexp.MustCompile(`(?i)\b(required|must provide|needed|necessary)\b`)
	optionalSectionRe = regexp.MustCompile(`(?i)\b(optional|may provide|can provide)\b`)
)

// Constraint detection patterns. Hard constraints carry obligation or
// prohibition language, soft constraints carry preference language.
var (
	hardConstraintRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(must|required|mandatory|critical|essential|necessary)\b`),
		regexp.MustCompile(`(?i)\b(never|always|cannot|can't|do not|don't)\b`),
		regexp.MustCompile(`(?i)\b(strictly|absolutely)\b|under no circumstances`),
	}
	softConstraintRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(should|prefer|recommend|suggest|ideally)\b`),
		regexp.MustCompile(`(?i)\b(try to|aim to|strive to|attempt to)\b`),
	}
	negationRe = regexp.MustCompile(`(?i)\b(never|not|don't|do not|cannot|can't|won't|will not|shouldn't|should not|avoid|refrain|prohibit|forbidden)\b`)
)

// Scope statements describe what the agent is and what it may or may not
// do.
var scopeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(you are|you're|your role is|your purpose is)\b`),
	regexp.MustCompile(`(?i)\b(you can|you cannot|you can't|you may|you may not|only help with|only assist with)\b`),
}

// Output format statements constrain how responses look. Lines talking
// about user input are excluded since they describe input, not output.
var (
	outputFormatRe        = regexp.MustCompile(`(?i)\b(format|respond with|respond in|structure|output|reply in|present)\b`)
	outputFormatExcludeRe = regexp.MustCompile(`(?i)\b(user|input|provide|give me)\b`)
)

var safetyRe = regexp.MustCompile(`(?i)\b(safety|safe|harmful|dangerous|illegal|unethical|offensive|inappropriate)\b`)

// Primary objective extraction from role statements.
var primaryObjectiveRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you are (?:a |an )?(.*?)(?:assistant|bot|agent|system)`),
	regexp.MustCompile(`(?i)your (?:role|purpose|job) is to (.*?)(?:\.|$)`),
}

// domainKeywords associates known domains with indicator vocabulary. Order
// matters: the first registered domain wins ties.
type domainEntry struct {
	name     string
	keywords []string
}

var domainKeywords = []domainEntry{
	{"flight_booking", []string{
		"flight", "flights", "booking", "book", "airline", "airport",
		"travel", "itinerary", "departure", "arrival", "destination",
	}},
	{"nutrition", []string{
		"nutrition", "diet", "dietary", "meal", "meals", "calories",
		"food", "recipe", "vegan", "vegetarian", "protein",
	}},
	{"image_generation", []string{
		"image", "images", "picture", "photo", "illustration", "render",
		"draw", "art", "style", "resolution",
	}},
	{"customer_support", []string{
		"support", "customer", "ticket", "refund", "complaint", "order",
		"account", "billing",
	}},
	{"code_review", []string{
		"code", "review", "function", "bug", "refactor", "commit",
		"lint", "variable",
	}},
}
