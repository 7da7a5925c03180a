package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache defines the interface for an external embedding cache backend.
type Cache interface {
	// Get retrieves an embedding from cache
	Get(ctx context.Context, key string) ([]float32, bool, error)

	// Set stores an embedding in cache
	Set(ctx context.Context, key string, embedding []float32) error

	// GetMulti retrieves multiple embeddings from cache
	// Returns a map of key -> embedding for found entries
	GetMulti(ctx context.Context, keys []string) (map[string][]float32, error)

	// SetMulti stores multiple embeddings in cache
	SetMulti(ctx context.Context, embeddings map[string][]float32) error
}

// CacheKey creates a cache key from model and text
func CacheKey(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model + ":" + text))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// NoOpCache is a cache that doesn't cache anything (for testing and for
// running without a database).
type NoOpCache struct{}

func (c *NoOpCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	return nil, false, nil
}

func (c *NoOpCache) Set(ctx context.Context, key string, embedding []float32) error {
	return nil
}

func (c *NoOpCache) GetMulti(ctx context.Context, keys []string) (map[string][]float32, error) {
	return make(map[string][]float32), nil
}

func (c *NoOpCache) SetMulti(ctx context.Context, embeddings map[string][]float32) error {
	return nil
}
