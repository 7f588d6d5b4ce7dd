package knowledge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// DocumentRef identifies a changed document at the source.
type DocumentRef struct {
	ID           string
	ModifiedTime time.Time
}

// DocumentSource provides legal documents to ingest. Implementations
// wrap whatever backs the knowledge base (a synced folder, an API).
type DocumentSource interface {
	// Get fetches a single document by id.
	Get(ctx context.Context, id string) (*model.Document, error)

	// ListChangedSince lists documents under folder modified after ts.
	// A zero ts lists everything.
	ListChangedSince(ctx context.Context, folder string, ts time.Time) ([]DocumentRef, error)
}

// FilesystemSource reads documents from a directory tree. The first
// path segment is the document category; .txt and .md files are
// documents, everything else is ignored.
type FilesystemSource struct {
	root string
	// nationalCategories lists categories whose documents carry the
	// national jurisdiction instead of the supranational default.
	nationalCategories map[string]bool
	nationalCode       string
}

// NewFilesystemSource creates a source rooted at dir. Documents in the
// given national categories (e.g. "decrees", "decisions") are tagged
// with nationalCode; everything else is tagged EU.
func NewFilesystemSource(dir string, nationalCode string, nationalCategories ...string) *FilesystemSource {
	cats := make(map[string]bool, len(nationalCategories))
	for _, c := range nationalCategories {
		cats[c] = true
	}
	return &FilesystemSource{
		root:               dir,
		nationalCategories: cats,
		nationalCode:       nationalCode,
	}
}

// Get fetches a document by its id (path relative to the root).
func (s *FilesystemSource) Get(ctx context.Context, id string) (*model.Document, error) {
	path := filepath.Join(s.root, filepath.FromSlash(id))

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document %s: %w", id, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}

	category := categoryOf(id)
	jurisdiction := model.JurisdictionEU
	if s.nationalCategories[category] {
		jurisdiction = s.nationalCode
	}

	base := filepath.Base(id)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return &model.Document{
		ID:           id,
		Name:         name,
		Text:         string(data),
		ModifiedTime: info.ModTime().UTC(),
		Category:     category,
		Jurisdiction: jurisdiction,
	}, nil
}

// ListChangedSince walks folder (or the whole root when empty) and
// returns document refs modified after ts.
func (s *FilesystemSource) ListChangedSince(ctx context.Context, folder string, ts time.Time) ([]DocumentRef, error) {
	start := s.root
	if folder != "" {
		start = filepath.Join(s.root, filepath.FromSlash(folder))
	}

	var refs []DocumentRef
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isDocumentFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !ts.IsZero() && !info.ModTime().After(ts) {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		refs = append(refs, DocumentRef{
			ID:           filepath.ToSlash(rel),
			ModifiedTime: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return refs, nil
}

// SyncChanged fetches every document changed since ts and updates it in
// the knowledge base. Per-document failures are logged and skipped.
func (s *Service) SyncChanged(ctx context.Context, source DocumentSource, folder string, ts time.Time) (int, error) {
	refs, err := source.ListChangedSince(ctx, folder, ts)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, ref := range refs {
		doc, err := source.Get(ctx, ref.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: fetch %s failed: %v\n", ref.ID, err)
			continue
		}
		if err := s.UpdateDocument(ctx, *doc); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: update %s failed: %v\n", ref.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}

func categoryOf(id string) string {
	if idx := strings.IndexByte(id, '/'); idx > 0 {
		return id[:idx]
	}
	return "general"
}

func isDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	default:
		return false
	}
}
