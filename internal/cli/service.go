package cli

import (
	"fmt"
	"os"

	"github.com/valefoxdev101/gdpr-education-audit/internal/cache"
	"github.com/valefoxdev101/gdpr-education-audit/internal/chunker"
	"github.com/valefoxdev101/gdpr-education-audit/internal/embeddings"
	"github.com/valefoxdev101/gdpr-education-audit/internal/knowledge"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/vectorstore"
)

// buildKnowledgeService wires the embedder, vector store and answer
// cache into a knowledge service from the given configuration. The
// store is returned alongside so callers can persist it after writes.
func buildKnowledgeService(cfg *model.Config) (*knowledge.Service, *vectorstore.ChromemStore, error) {
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	embedder, err := embeddings.New(cfg.Embedding)
	if err != nil {
		return nil, nil, fmt.Errorf("create embedder: %w", err)
	}
	if cfg.Embedding.RequestsPerSecond > 0 {
		embedder = embeddings.NewThrottled(embedder, cfg.Embedding.RequestsPerSecond, cfg.Embedding.Burst)
	}

	store, err := vectorstore.NewChromemStore(embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("create vector store: %w", err)
	}
	if dir := cfg.Knowledge.PersistDir; dir != "" {
		if _, statErr := os.Stat(dir); statErr == nil {
			if err := store.Load(dir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: load knowledge base from %s failed: %v\n", dir, err)
			}
		}
	}

	var answerCache cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.DiskDir != "" {
			answerCache = cache.NewLayeredCache(cfg.Cache.AnswerTTL, cfg.Cache.DiskDir, cfg.Cache.AnswerTTL)
		} else {
			answerCache = cache.NewMemoryCache(cfg.Cache.AnswerTTL, cfg.Cache.AnswerTTL)
		}
	}

	svc := knowledge.NewService(embedder, store, answerCache, knowledge.Options{
		Chunking: chunker.Options{
			ChunkSize:         cfg.Knowledge.ChunkSize,
			Overlap:           cfg.Knowledge.ChunkOverlap,
			PreserveCitations: true,
		},
		TopK:       cfg.Knowledge.TopK,
		PrecedentK: cfg.Knowledge.PrecedentK,
		AnswerTTL:  cfg.Cache.AnswerTTL,
		Verbose:    cfg.Output.Verbose,
	})

	return svc, store, nil
}

// persistKnowledgeBase saves the vector store if persistence is configured.
func persistKnowledgeBase(store *vectorstore.ChromemStore, cfg *model.Config) {
	dir := cfg.Knowledge.PersistDir
	if dir == "" {
		return
	}
	if err := store.Persist(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: persist knowledge base to %s failed: %v\n", dir, err)
	}
}
