package vectorstore

import (
	"context"
	"testing"
)

func entry(id string, vec []float32, meta map[string]string) Entry {
	return Entry{ID: id, Vector: vec, Text: "text " + id, Metadata: meta}
}

func TestMemoryStore_QueryRanking(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Upsert(ctx, []Entry{
		entry("close", []float32{1, 0, 0}, nil),
		entry("mid", []float32{1, 1, 0}, nil),
		entry("far", []float32{0, 1, 0}, nil),
	})

	hits, err := s.Query(ctx, []float32{1, 0, 0}, 3, nil)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("Expected 3 hits, got %d", len(hits))
	}
	if hits[0].ID != "close" || hits[2].ID != "far" {
		t.Errorf("Unexpected ranking: %s, %s, %s", hits[0].ID, hits[1].ID, hits[2].ID)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Error("Hits not sorted by ascending distance")
		}
	}
}

func TestMemoryStore_FilterAndTopK(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Upsert(ctx, []Entry{
		entry("a", []float32{1, 0}, map[string]string{"category": "regulations"}),
		entry("b", []float32{1, 0}, map[string]string{"category": "precedents"}),
		entry("c", []float32{0, 1}, map[string]string{"category": "regulations"}),
	})

	hits, err := s.Query(ctx, []float32{1, 0}, 1, Filter{"category": "regulations"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "a" {
		t.Errorf("Expected single filtered hit 'a', got %+v", hits)
	}
}

func TestMemoryStore_DeleteAndFilterIDs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Upsert(ctx, []Entry{
		entry("doc1_chunk_0", []float32{1}, map[string]string{"document_id": "doc1"}),
		entry("doc1_chunk_1", []float32{1}, map[string]string{"document_id": "doc1"}),
		entry("doc2_chunk_0", []float32{1}, map[string]string{"document_id": "doc2"}),
	})

	ids, err := s.IDsByFilter(ctx, Filter{"document_id": "doc1"})
	if err != nil {
		t.Fatalf("IDsByFilter failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 ids, got %v", ids)
	}

	if err := s.DeleteByFilter(ctx, Filter{"document_id": "doc1"}); err != nil {
		t.Fatalf("DeleteByFilter failed: %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Expected 1 remaining entry, got %d", s.Count())
	}

	if err := s.DeleteByIDs(ctx, []string{"doc2_chunk_0", "missing"}); err != nil {
		t.Fatalf("DeleteByIDs failed: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Expected empty store, got %d entries", s.Count())
	}
}

func TestMemoryStore_UpsertReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Upsert(ctx, []Entry{entry("id", []float32{1, 0}, nil)})
	s.Upsert(ctx, []Entry{{ID: "id", Vector: []float32{0, 1}, Text: "updated"}})

	if s.Count() != 1 {
		t.Fatalf("Expected upsert to replace, got %d entries", s.Count())
	}

	hits, _ := s.Query(ctx, []float32{0, 1}, 1, nil)
	if len(hits) != 1 || hits[0].Text != "updated" {
		t.Errorf("Expected updated entry, got %+v", hits)
	}
}
