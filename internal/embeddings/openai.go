package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const maxBatchSize = 100

// OpenAIModel represents a supported OpenAI embedding model.
type OpenAIModel string

const (
	ModelTextEmbedding3Small OpenAIModel = "text-embedding-3-small"
	ModelTextEmbedding3Large OpenAIModel = "text-embedding-3-large"
)

func (m OpenAIModel) dimensions() int {
	switch m {
	case ModelTextEmbedding3Large:
		return 3072
	default:
		return 1536
	}
}

// OpenAIEmbedder generates embeddings using OpenAI's API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  OpenAIModel
}

// NewOpenAIEmbedder creates a new OpenAI embedder. An empty baseURL uses
// the default endpoint; an empty model falls back to text-embedding-3-small.
func NewOpenAIEmbedder(apiKey, baseURL string, model OpenAIModel) *OpenAIEmbedder {
	if model == "" {
		model = ModelTextEmbedding3Small
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Name returns the embedding model identifier.
func (e *OpenAIEmbedder) Name() string {
	return string(e.model)
}

// Dimensions returns the vector dimension of the model.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.model.dimensions()
}

// Embed generates embeddings for the given texts, batching up to
// maxBatchSize per API call. Any provider error fails the whole batch.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedding request: %w", err)
		}

		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai returned %d embeddings, expected %d", len(resp.Data), len(batch))
		}

		for _, emb := range resp.Data {
			all = append(all, emb.Embedding)
		}
	}

	return all, nil
}
