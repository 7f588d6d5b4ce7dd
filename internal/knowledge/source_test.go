package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesystemSource_GetAndJurisdiction(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "regulations/gdpr.txt", "Article 5 principles.")
	writeDoc(t, root, "decrees/230-2020.txt", "Decree No. 230/2020 on distance education.")
	writeDoc(t, root, "regulations/ignore.pdf", "binary")

	src := NewFilesystemSource(root, "HU", "decrees", "decisions")
	ctx := context.Background()

	doc, err := src.Get(ctx, "regulations/gdpr.txt")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.Category != "regulations" || doc.Jurisdiction != "EU" || doc.Name != "gdpr" {
		t.Errorf("Unexpected document: %+v", doc)
	}

	decree, err := src.Get(ctx, "decrees/230-2020.txt")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if decree.Jurisdiction != "HU" {
		t.Errorf("Expected national jurisdiction, got %q", decree.Jurisdiction)
	}
}

func TestFilesystemSource_ListChangedSince(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "regulations/a.txt", "a")
	writeDoc(t, root, "precedents/b.md", "b")
	writeDoc(t, root, "precedents/skip.json", "{}")

	src := NewFilesystemSource(root, "HU")
	ctx := context.Background()

	refs, err := src.ListChangedSince(ctx, "", time.Time{})
	if err != nil {
		t.Fatalf("ListChangedSince failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 documents, got %d: %+v", len(refs), refs)
	}

	// Nothing changed after the future cutoff.
	future := time.Now().Add(time.Hour)
	refs, err = src.ListChangedSince(ctx, "", future)
	if err != nil {
		t.Fatalf("ListChangedSince failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("Expected no changes after cutoff, got %d", len(refs))
	}
}

func TestSyncChanged_UpdatesKnowledgeBase(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "regulations/gdpr.txt", "Consent rules in Article 6(1)(a) of the GDPR.")

	svc, _, store, _ := newTestService(t)
	src := NewFilesystemSource(root, "HU")

	updated, err := svc.SyncChanged(context.Background(), src, "", time.Time{})
	if err != nil {
		t.Fatalf("SyncChanged failed: %v", err)
	}
	if updated != 1 {
		t.Errorf("Expected 1 updated document, got %d", updated)
	}
	if store.Count() == 0 {
		t.Error("Expected chunks in the store after sync")
	}
}
