package embeddings

import (
	"context"
	"fmt"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/similarity"
)

// AnchorSpec declares named categories of exemplar phrases. The phrases are
// embedded once and reused for every classification against the set.
type AnchorSpec map[string][]string

// AnchorSet holds precomputed embeddings for an AnchorSpec's phrases.
type AnchorSet struct {
	categories map[string][][]float32
}

// PrecomputeAnchors embeds every exemplar phrase. Every category
// must have at least one phrase; an empty category would make every later
// classification silently impossible.
func (p *Provider) PrecomputeAnchors(ctx context.Context, spec AnchorSpec) (*AnchorSet, error) {
	set := &AnchorSet{categories: make(map[string][][]float32, len(spec))}

	for name, phrases := range spec {
		if len(phrases) == 0 {
			return nil, fmt.Errorf("anchor category %q has no phrases", name)
		}
		vecs, err := p.EncodeBatch(ctx, phrases)
		if err != nil {
			return nil, fmt.Errorf("precomputing anchors for %q: %w", name, err)
		}
		set.categories[name] = vecs
	}

	return set, nil
}

// Categories returns the category names in the set.
func (s *AnchorSet) Categories() []string {
	names := make([]string, 0, len(s.categories))
	for name := range s.categories {
		names = append(names, name)
	}
	return names
}

// MaxSimilarity returns the highest cosine similarity between the query
// vector and any exemplar in the named category. Unknown categories score 0.
func (s *AnchorSet) MaxSimilarity(query []float32, category string) float64 {
	vecs, ok := s.categories[category]
	if !ok {
		return 0
	}
	return similarity.MaxCosine(query, vecs)
}

// BestMatch returns the category whose exemplars are most similar to the
// query vector, with the winning similarity. Returns ok=false if the set is
// empty.
func (s *AnchorSet) BestMatch(query []float32) (category string, score float64, ok bool) {
	best := -1.0
	for name, vecs := range s.categories {
		sim := similarity.MaxCosine(query, vecs)
		// ties break lexically so results do not depend on map order
		if sim > best || (sim == best && ok && name < category) {
			best = sim
			category = name
			ok = true
		}
	}
	return category, best, ok
}
