package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/valefoxdev101/gdpr-education-audit/internal/cache"
	"github.com/valefoxdev101/gdpr-education-audit/internal/chunker"
	"github.com/valefoxdev101/gdpr-education-audit/internal/citation"
	"github.com/valefoxdev101/gdpr-education-audit/internal/embeddings"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/vectorstore"
)

// Lookup is the query surface of the knowledge service consumed by the
// detection and enrichment stages.
type Lookup interface {
	GetLegalRequirement(ctx context.Context, reqType model.RequirementType, qctx model.QueryContext) (*model.KnowledgeAnswer, error)
	SearchLegalPrecedents(ctx context.Context, violationType model.ViolationType, qctx model.QueryContext) ([]model.Precedent, error)
}

// Service orchestrates ingestion, retrieval and answer caching over the
// legal knowledge base.
type Service struct {
	embedder    embeddings.Embedder
	store       vectorstore.Store
	cache       cache.Cache
	synthesizer *Synthesizer
	extractor   *citation.Extractor

	chunkOpts chunker.Options
	topK      int
	prec      int
	answerTTL time.Duration
	verbose   bool

	// docLocks serializes updates per document id so delete-then-reinsert
	// cannot interleave with another update of the same document.
	docLocks sync.Map // map[string]*sync.Mutex
}

// Options configures a knowledge Service.
type Options struct {
	Chunking   chunker.Options
	TopK       int // Requirement queries; default 10
	PrecedentK int // Precedent searches; default 5
	AnswerTTL  time.Duration
	Verbose    bool
}

// NewService creates a knowledge service over the given capabilities.
// A nil cache disables answer caching.
func NewService(embedder embeddings.Embedder, store vectorstore.Store, answerCache cache.Cache, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.PrecedentK <= 0 {
		opts.PrecedentK = 5
	}
	if opts.AnswerTTL <= 0 {
		opts.AnswerTTL = 24 * time.Hour
	}
	if opts.Chunking.ChunkSize == 0 {
		opts.Chunking = chunker.DefaultOptions()
	}

	return &Service{
		embedder:    embedder,
		store:       store,
		cache:       answerCache,
		synthesizer: NewSynthesizer(embedder, store),
		extractor:   citation.NewExtractor(),
		chunkOpts:   opts.Chunking,
		topK:        opts.TopK,
		prec:        opts.PrecedentK,
		answerTTL:   opts.AnswerTTL,
		verbose:     opts.Verbose,
	}
}

// IngestDocuments ingests a batch of documents, up to maxConcurrent at a
// time. A failure for one document is logged and skipped; it never
// aborts the rest of the batch. Returns the number ingested.
func (s *Service) IngestDocuments(ctx context.Context, docs []model.Document, maxConcurrent int) int {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ingested := 0
	semaphore := make(chan struct{}, maxConcurrent)

	for _, doc := range docs {
		wg.Add(1)
		go func(d model.Document) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			if err := s.ingestDocument(ctx, d); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: ingest %s failed: %v\n", d.ID, err)
				return
			}
			mu.Lock()
			ingested++
			mu.Unlock()
		}(doc)
	}

	wg.Wait()
	return ingested
}

// ingestDocument chunks, embeds and upserts a single document under its
// per-document lock.
func (s *Service) ingestDocument(ctx context.Context, doc model.Document) error {
	unlock := s.lockDocument(doc.ID)
	defer unlock()
	return s.ingestLocked(ctx, doc)
}

func (s *Service) ingestLocked(ctx context.Context, doc model.Document) error {
	chunks, err := chunker.ChunkDocument(doc, s.chunkOpts, s.extractor)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	jurisdiction := doc.Jurisdiction
	if jurisdiction == "" {
		jurisdiction = model.JurisdictionEU
	}

	entries := make([]vectorstore.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = vectorstore.Entry{
			ID:     c.ID,
			Vector: vectors[i],
			Text:   c.Text,
			Metadata: map[string]string{
				metaDocumentID:   c.DocumentID,
				metaDocumentName: doc.Name,
				metaCategory:     c.Category,
				metaJurisdiction: jurisdiction,
				metaReferences:   encodeReferences(c.References),
				metaIndex:        strconv.Itoa(c.Index),
			},
		}
	}

	if err := s.store.Upsert(ctx, entries); err != nil {
		return fmt.Errorf("upsert chunks: %w", err)
	}

	if s.verbose {
		fmt.Fprintf(os.Stderr, "✓ Ingested %s (%d chunks)\n", doc.ID, len(chunks))
	}
	return nil
}

// UpdateDocument replaces all chunks of a document with a fresh
// ingestion, then invalidates cached answers. Updates to the same
// document id are serialized; prior chunks are deleted before the new
// ones are inserted so no orphaned chunks remain.
func (s *Service) UpdateDocument(ctx context.Context, doc model.Document) error {
	unlock := s.lockDocument(doc.ID)
	defer unlock()

	if err := s.store.DeleteByFilter(ctx, vectorstore.Filter{metaDocumentID: doc.ID}); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", doc.ID, err)
	}

	if err := s.ingestLocked(ctx, doc); err != nil {
		return err
	}

	// Broad invalidation: every requirement-query entry. Narrowing to
	// entries referencing this document id would need a per-answer source
	// index; not worth it at current scale.
	if s.cache != nil {
		if err := s.cache.DeleteMatching(cache.AnswerKeyPrefix()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cache invalidation failed: %v\n", err)
		}
	}
	return nil
}

// GetLegalRequirement answers a legal-requirement query, serving from
// cache when a fresh entry exists.
func (s *Service) GetLegalRequirement(ctx context.Context, reqType model.RequirementType, qctx model.QueryContext) (*model.KnowledgeAnswer, error) {
	key := cache.AnswerKey(string(reqType), qctx)

	// Cache-backend failure on read behaves as a miss.
	if s.cache != nil {
		if data, found := s.cache.Get(key); found {
			var answer model.KnowledgeAnswer
			if err := json.Unmarshal(data, &answer); err == nil {
				return &answer, nil
			}
		}
	}

	query := buildQuery(reqType, qctx)
	hits, err := s.synthesizer.Retrieve(ctx, query, s.topK, qctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", reqType, err)
	}

	answer := s.synthesizer.Synthesize(reqType, hits)

	if s.cache != nil {
		if data, err := json.Marshal(answer); err == nil {
			if err := s.cache.Set(key, data, s.answerTTL); err != nil {
				// Write failure is logged and swallowed; the answer is
				// still returned, just not cached.
				fmt.Fprintf(os.Stderr, "Warning: cache write failed: %v\n", err)
			}
		}
	}

	return answer, nil
}

// SearchLegalPrecedents retrieves up to PrecedentK enforcement cases for
// a violation type.
func (s *Service) SearchLegalPrecedents(ctx context.Context, violationType model.ViolationType, qctx model.QueryContext) ([]model.Precedent, error) {
	qctx.Category = "precedents"
	qctx.ViolationType = string(violationType)

	hits, err := s.synthesizer.Retrieve(ctx, precedentQuery(violationType), s.prec, qctx)
	if err != nil {
		return nil, fmt.Errorf("search precedents for %s: %w", violationType, err)
	}

	precedents := make([]model.Precedent, 0, len(hits))
	for _, h := range hits {
		precedents = append(precedents, mapPrecedent(h))
	}
	return precedents, nil
}

// lockDocument acquires the per-document mutex and returns its unlock.
func (s *Service) lockDocument(docID string) func() {
	v, _ := s.docLocks.LoadOrStore(docID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
