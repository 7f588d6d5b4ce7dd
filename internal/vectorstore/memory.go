package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is a brute-force in-memory Store. It backs tests and
// offline runs where no embedded database file is wanted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Upsert inserts or replaces entries by id.
func (s *MemoryStore) Upsert(ctx context.Context, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

// Query ranks all matching entries by cosine distance to the vector.
func (s *MemoryStore) Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Hit, error) {
	if topK <= 0 {
		topK = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []Hit
	for _, e := range s.entries {
		if !matches(e.Metadata, filter) {
			continue
		}
		hits = append(hits, Hit{
			ID:       e.ID,
			Text:     e.Text,
			Metadata: e.Metadata,
			Distance: 1 - cosine(vector, e.Vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// DeleteByIDs removes the given entries.
func (s *MemoryStore) DeleteByIDs(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// DeleteByFilter removes every entry matching the filter.
func (s *MemoryStore) DeleteByFilter(ctx context.Context, filter Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if matches(e.Metadata, filter) {
			delete(s.entries, id)
		}
	}
	return nil
}

// IDsByFilter returns the ids of entries matching the filter, sorted for
// deterministic output.
func (s *MemoryStore) IDsByFilter(ctx context.Context, filter Filter) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, e := range s.entries {
		if matches(e.Metadata, filter) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Count returns the number of stored entries.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func matches(metadata map[string]string, filter Filter) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
