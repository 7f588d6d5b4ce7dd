package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	chromem "github.com/philippgille/chromem-go"

	"github.com/valefoxdev101/gdpr-education-audit/internal/embeddings"
)

const collectionName = "legal-knowledge"

// ChromemStore implements Store using the embedded chromem-go database.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
	dims       int
}

// NewChromemStore creates a new in-memory ChromemStore. The embedder is
// only used by chromem for entries added without a precomputed vector.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedFunc:  ef,
		dims:       embedder.Dimensions(),
	}, nil
}

// Upsert inserts or replaces entries by id.
func (s *ChromemStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Text,
			Embedding: e.Vector,
			Metadata:  e.Metadata,
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("chromem upsert: %w", err)
	}
	return nil
}

// Query returns up to topK hits ranked by ascending distance.
func (s *ChromemStore) Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Hit, error) {
	if topK <= 0 {
		topK = 10
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, topK, map[string]string(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			ID:       r.ID,
			Text:     r.Content,
			Metadata: r.Metadata,
			Distance: 1 - float64(r.Similarity),
		}
	}
	return hits, nil
}

// DeleteByIDs removes the given entries.
func (s *ChromemStore) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("chromem delete: %w", err)
	}
	return nil
}

// DeleteByFilter removes every entry matching the filter.
func (s *ChromemStore) DeleteByFilter(ctx context.Context, filter Filter) error {
	if s.collection.Count() == 0 {
		return nil
	}
	if err := s.collection.Delete(ctx, map[string]string(filter), nil); err != nil {
		return fmt.Errorf("chromem delete by filter: %w", err)
	}
	return nil
}

// IDsByFilter returns the ids of entries matching the filter. chromem
// has no metadata listing, so this queries the whole collection with a
// fixed probe vector; ranking is irrelevant here and no embedding call
// is made.
func (s *ChromemStore) IDsByFilter(ctx context.Context, filter Filter) ([]string, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	probe := make([]float32, s.dims)
	probe[0] = 1

	results, err := s.collection.QueryEmbedding(ctx, probe, count, map[string]string(filter), nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query by filter: %w", err)
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids, nil
}

// Count returns the number of stored entries.
func (s *ChromemStore) Count() int {
	return s.collection.Count()
}

// Persist saves the store's data to the given directory.
func (s *ChromemStore) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create persist dir: %w", err)
	}
	return s.db.ExportToFile(filepath.Join(dir, "knowledge.gob.gz"), true, "")
}

// Load restores the store's data from the given directory.
func (s *ChromemStore) Load(dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, "knowledge.gob.gz"), ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}
