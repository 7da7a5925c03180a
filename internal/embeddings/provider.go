package embeddings

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/similarity"
)

// Provider wraps an Encoder with an in-memory vector cache and an optional
// external cache backend. Repeated requests for the same text within a
// process always return the identical vector, which keeps analysis results
// reproducible across calls.
type Provider struct {
	encoder Encoder
	cache   Cache
	model   string

	mu      sync.RWMutex
	vectors map[string][]float32
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithCache attaches an external cache backend. Without it the provider
// only keeps the process-local map.
func WithCache(cache Cache) ProviderOption {
	return func(p *Provider) {
		p.cache = cache
	}
}

// NewProvider creates a Provider around the given encoder.
func NewProvider(encoder Encoder, opts ...ProviderOption) *Provider {
	p := &Provider{
		encoder: encoder,
		cache:   &NoOpCache{},
		model:   DefaultModel,
		vectors: make(map[string][]float32),
	}
	if m, ok := encoder.(interface{ Model() string }); ok {
		p.model = m.Model()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Encode returns the embedding for a single text, from cache when possible.
func (p *Provider) Encode(ctx context.Context, text string) ([]float32, error) {
	p.mu.RLock()
	vec, ok := p.vectors[text]
	p.mu.RUnlock()
	if ok {
		return vec, nil
	}

	key := CacheKey(p.model, text)
	if cached, found, err := p.cache.Get(ctx, key); err == nil && found {
		p.store(text, cached)
		return cached, nil
	}

	vec, err := p.encoder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("encoding text: %w", err)
	}
	p.store(text, vec)
	// best effort; a write failure only costs a re-encode later
	_ = p.cache.Set(ctx, key, vec)
	return vec, nil
}

// EncodeBatch returns embeddings for multiple texts in input order,
// encoding only the texts not already cached.
func (p *Provider) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	missing := make([]string, 0, len(texts))
	missingIdx := make([]int, 0, len(texts))

	p.mu.RLock()
	for i, text := range texts {
		if vec, ok := p.vectors[text]; ok {
			result[i] = vec
		} else {
			missing = append(missing, text)
			missingIdx = append(missingIdx, i)
		}
	}
	p.mu.RUnlock()

	if len(missing) == 0 {
		return result, nil
	}

	keys := make([]string, len(missing))
	for i, text := range missing {
		keys[i] = CacheKey(p.model, text)
	}
	cached, err := p.cache.GetMulti(ctx, keys)
	if err != nil {
		cached = map[string][]float32{}
	}

	toEncode := make([]string, 0, len(missing))
	toEncodeIdx := make([]int, 0, len(missing))
	for i, text := range missing {
		if vec, ok := cached[keys[i]]; ok {
			result[missingIdx[i]] = vec
			p.store(text, vec)
		} else {
			toEncode = append(toEncode, text)
			toEncodeIdx = append(toEncodeIdx, missingIdx[i])
		}
	}

	if len(toEncode) > 0 {
		vecs, err := p.encoder.EmbedTexts(ctx, toEncode)
		if err != nil {
			return nil, fmt.Errorf("encoding batch: %w", err)
		}
		if len(vecs) != len(toEncode) {
			return nil, fmt.Errorf("encoder returned %d embeddings for %d texts", len(vecs), len(toEncode))
		}
		toStore := make(map[string][]float32, len(vecs))
		for i, vec := range vecs {
			result[toEncodeIdx[i]] = vec
			p.store(toEncode[i], vec)
			toStore[CacheKey(p.model, toEncode[i])] = vec
		}
		_ = p.cache.SetMulti(ctx, toStore)
	}

	return result, nil
}

// Similarity returns the cosine similarity between the embeddings of two
// texts.
func (p *Provider) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecs, err := p.EncodeBatch(ctx, []string{a, b})
	if err != nil {
		return 0, err
	}
	return similarity.Cosine(vecs[0], vecs[1]), nil
}

// Warmup encodes a probe text to verify the backend is reachable and the
// model loads. Called once at startup.
func (p *Provider) Warmup(ctx context.Context) error {
	if _, err := p.Encode(ctx, "warmup probe"); err != nil {
		return fmt.Errorf("embedding warmup: %w", err)
	}
	return nil
}

func (p *Provider) store(text string, vec []float32) {
	p.mu.Lock()
	// first write wins so concurrent callers observe one vector per text
	if _, ok := p.vectors[text]; !ok {
		p.vectors[text] = vec
	}
	p.mu.Unlock()
}
