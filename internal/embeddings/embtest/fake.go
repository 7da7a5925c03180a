// Package embtest provides a deterministic in-process encoder for tests.
package embtest

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const dimension = 4096

// Encoder produces deterministic bag-of-words embeddings. Texts sharing
// words get proportionally similar vectors, identical texts get identical
// vectors, and no network is involved. Aliases let a test pin two texts to
// the exact same vector.
type Encoder struct {
	aliases map[string]string
}

func NewEncoder() *Encoder {
	return &Encoder{aliases: make(map[string]string)}
}

// Alias makes text embed identically to canonical.
func (e *Encoder) Alias(text, canonical string) {
	e.aliases[text] = canonical
}

func (e *Encoder) Model() string { return "embtest-bow" }

func (e *Encoder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if c, ok := e.aliases[text]; ok {
		text = c
	}
	vec := make([]float32, dimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%dimension]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return vec, nil
}

func (e *Encoder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}
