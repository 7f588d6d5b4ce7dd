package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/valefoxdev101/gdpr-education-audit/internal/embeddings"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/vectorstore"
)

// Metadata keys used for chunk entries in the vector store.
const (
	metaDocumentID   = "document_id"
	metaDocumentName = "document_name"
	metaCategory     = "category"
	metaJurisdiction = "jurisdiction"
	metaReferences   = "references"
	metaIndex        = "index"
)

// Synthesizer builds retrieval queries, issues similarity search and
// aggregates hits into a structured answer with a confidence score.
type Synthesizer struct {
	embedder embeddings.Embedder
	store    vectorstore.Store
}

// NewSynthesizer creates a new query synthesizer.
func NewSynthesizer(embedder embeddings.Embedder, store vectorstore.Store) *Synthesizer {
	return &Synthesizer{embedder: embedder, store: store}
}

// Retrieve embeds the query and returns ranked hits. The jurisdiction
// filter is an OR over the requested jurisdiction and the shared
// supranational one; the backend only supports conjunctive equality, so
// two queries are issued and merged by id, keeping the best distance.
func (s *Synthesizer) Retrieve(ctx context.Context, query string, topK int, qctx model.QueryContext) ([]vectorstore.Hit, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	vector := vectors[0]

	base := vectorstore.Filter{}
	if qctx.Category != "" {
		base[metaCategory] = qctx.Category
	}

	if qctx.Jurisdiction == "" {
		return s.store.Query(ctx, vector, topK, base)
	}

	filters := []vectorstore.Filter{withJurisdiction(base, qctx.Jurisdiction)}
	if qctx.Jurisdiction != model.JurisdictionEU {
		filters = append(filters, withJurisdiction(base, model.JurisdictionEU))
	}

	// Union by id, keep best (lowest) distance, re-rank, truncate.
	best := make(map[string]vectorstore.Hit)
	for _, f := range filters {
		hits, err := s.store.Query(ctx, vector, topK, f)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if prev, ok := best[h.ID]; !ok || h.Distance < prev.Distance {
				best[h.ID] = h
			}
		}
	}

	merged := make([]vectorstore.Hit, 0, len(best))
	for _, h := range best {
		merged = append(merged, h)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Distance < merged[j].Distance })
	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged, nil
}

// Synthesize aggregates ranked hits into a KnowledgeAnswer. Content is
// the concatenation of chunk texts in descending relevance, sources are
// deduplicated by document id, references are the flattened union over
// contributing chunks, and confidence is max(0, 1-meanDistance).
func (s *Synthesizer) Synthesize(reqType model.RequirementType, hits []vectorstore.Hit) *model.KnowledgeAnswer {
	answer := &model.KnowledgeAnswer{
		RequirementType: reqType,
		Sources:         []model.AnswerSource{},
		References:      []model.LegalReference{},
	}

	if len(hits) == 0 {
		return answer
	}

	var texts []string
	var distanceSum float64
	seenDocs := make(map[string]bool)

	for _, h := range hits {
		texts = append(texts, strings.TrimSpace(h.Text))
		distanceSum += h.Distance

		docID := h.Metadata[metaDocumentID]
		if docID != "" && !seenDocs[docID] {
			seenDocs[docID] = true
			answer.Sources = append(answer.Sources, model.AnswerSource{
				DocumentID:   docID,
				DocumentName: h.Metadata[metaDocumentName],
				Relevance:    1 - h.Distance,
			})
		}

		answer.References = append(answer.References, decodeReferences(h.Metadata[metaReferences])...)
	}

	answer.Content = strings.Join(texts, "\n\n")

	confidence := 1 - distanceSum/float64(len(hits))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	answer.Confidence = confidence

	return answer
}

func withJurisdiction(base vectorstore.Filter, jurisdiction string) vectorstore.Filter {
	f := vectorstore.Filter{metaJurisdiction: jurisdiction}
	for k, v := range base {
		f[k] = v
	}
	return f
}

// encodeReferences serializes chunk references for flat string metadata.
func encodeReferences(refs []model.LegalReference) string {
	if len(refs) == 0 {
		return ""
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return ""
	}
	return string(data)
}

// decodeReferences is the inverse of encodeReferences; malformed
// metadata yields no references rather than an error.
func decodeReferences(encoded string) []model.LegalReference {
	if encoded == "" {
		return nil
	}
	var refs []model.LegalReference
	if err := json.Unmarshal([]byte(encoded), &refs); err != nil {
		return nil
	}
	return refs
}
