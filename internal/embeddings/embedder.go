package embeddings

import (
	"context"
	"fmt"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// Embedder converts text into fixed-dimension vectors. Embedding is a
// consumed capability: batches are order-preserving and fail as a whole
// on provider error, never returning partial results.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}

// New creates the configured embedding provider.
func New(cfg model.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key")
		}
		return NewOpenAIEmbedder(cfg.APIKey, cfg.BaseURL, OpenAIModel(cfg.Model)), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
