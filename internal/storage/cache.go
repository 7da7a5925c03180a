// Package storage provides a PostgreSQL-backed embedding cache using
// pgvector, so anchor and prompt embeddings survive process restarts.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// CachedEmbedding is one persisted embedding row.
type CachedEmbedding struct {
	Key       string
	Model     string
	Embedding pgvector.Vector
	CreatedAt time.Time
}

// PostgresEmbeddingCache implements the embeddings cache interface on top
// of PostgreSQL with the pgvector extension.
type PostgresEmbeddingCache struct {
	db    *sql.DB
	model string
}

// NewPostgresEmbeddingCache creates a cache bound to one embedding model.
func NewPostgresEmbeddingCache(db *sql.DB, model string) *PostgresEmbeddingCache {
	return &PostgresEmbeddingCache{db: db, model: model}
}

// Init creates the cache table if it does not exist.
func (c *PostgresEmbeddingCache) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS embedding_cache (
			key TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			embedding vector NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	_, err := c.db.ExecContext(ctx, query)
	return err
}

// Get retrieves an embedding from cache
func (c *PostgresEmbeddingCache) Get(ctx context.Context, key string) ([]float32, bool, error) {
	query := `SELECT embedding FROM embedding_cache WHERE key = $1 AND model = $2`

	var vec pgvector.Vector
	err := c.db.QueryRowContext(ctx, query, key, c.model).Scan(&vec)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return vec.Slice(), true, nil
}

// Set stores an embedding in cache
func (c *PostgresEmbeddingCache) Set(ctx context.Context, key string, embedding []float32) error {
	query := `
		INSERT INTO embedding_cache (key, model, embedding, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`
	_, err := c.db.ExecContext(ctx, query, key, c.model, pgvector.NewVector(embedding), time.Now())
	return err
}

// GetMulti retrieves multiple embeddings from cache
func (c *PostgresEmbeddingCache) GetMulti(ctx context.Context, keys []string) (map[string][]float32, error) {
	result := make(map[string][]float32, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	query := `SELECT key, embedding FROM embedding_cache WHERE key = ANY($1) AND model = $2`
	rows, err := c.db.QueryContext(ctx, query, pq.Array(keys), c.model)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var vec pgvector.Vector
		if err := rows.Scan(&key, &vec); err != nil {
			return nil, err
		}
		result[key] = vec.Slice()
	}
	return result, rows.Err()
}

// SetMulti stores multiple embeddings in a single transaction
func (c *PostgresEmbeddingCache) SetMulti(ctx context.Context, embeddings map[string][]float32) error {
	if len(embeddings) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO embedding_cache (key, model, embedding, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`
	now := time.Now()
	for key, embedding := range embeddings {
		if _, err := tx.ExecContext(ctx, query, key, c.model, pgvector.NewVector(embedding), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
