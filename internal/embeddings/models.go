package embeddings

// Supported embedding models and their dimensions
const (
	ModelTextEmbedding3Small = "openai/text-embedding-3-small"
	ModelTextEmbedding3Large = "openai/text-embedding-3-large"
	ModelMiniLML6            = "sentence-transformers/all-MiniLM-L6-v2"

	DimTextEmbedding3Small = 1536
	DimTextEmbedding3Large = 3072
	DimMiniLML6            = 384

	DefaultModel = ModelMiniLML6
)

// Dimension returns the embedding dimension for a given model.
func Dimension(model string) int {
	switch model {
	case ModelTextEmbedding3Small:
		return DimTextEmbedding3Small
	case ModelTextEmbedding3Large:
		return DimTextEmbedding3Large
	case ModelMiniLML6:
		return DimMiniLML6
	default:
		return DimMiniLML6
	}
}

// EmbeddingRequest represents a request to the embedding API
type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingResponse represents the API response
type EmbeddingResponse struct {
	Data  []EmbeddingData `json:"data"`
	Model string          `json:"model"`
	Usage Usage           `json:"usage"`
}

// EmbeddingData represents a single embedding in the response
type EmbeddingData struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
