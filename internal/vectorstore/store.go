package vectorstore

import "context"

// Entry is an (id, vector, text, metadata) tuple held by the store.
type Entry struct {
	ID       string
	Vector   []float32
	Text     string
	Metadata map[string]string
}

// Filter narrows queries by exact metadata equality. Multiple keys are
// conjunctive; OR-composition is not supported by the backend and must
// be achieved by issuing multiple queries and merging.
type Filter map[string]string

// Hit is a ranked query result. Distance is an opaque monotonic
// closeness measure: lower is closer. Callers convert to confidence
// only at the synthesis boundary.
type Hit struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64
}

// Store defines the vector store capability consumed by the core.
type Store interface {
	// Upsert inserts or replaces entries by id.
	Upsert(ctx context.Context, entries []Entry) error

	// Query returns up to topK hits ranked by ascending distance.
	Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Hit, error)

	// DeleteByIDs removes the given entries; missing ids are ignored.
	DeleteByIDs(ctx context.Context, ids []string) error

	// DeleteByFilter removes every entry matching the filter.
	DeleteByFilter(ctx context.Context, filter Filter) error

	// IDsByFilter returns the ids of every entry matching the filter.
	IDsByFilter(ctx context.Context, filter Filter) ([]string, error)

	// Count returns the number of stored entries.
	Count() int
}
