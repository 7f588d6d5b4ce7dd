package model

import (
	"fmt"
	"time"
)

// Document represents a legal source document prior to ingestion.
// Documents are immutable once ingested; an updated document supersedes
// the previous version, it never mutates it in place.
type Document struct {
	ID           string    `json:"id"`            // Stable source identifier
	Name         string    `json:"name"`          // Human-readable document name
	Text         string    `json:"text"`          // Full raw text
	ModifiedTime time.Time `json:"modified_time"` // Last modification at the source
	Category     string    `json:"category"`      // Source folder/category (e.g. "regulations", "precedents")
	Jurisdiction string    `json:"jurisdiction"`  // Jurisdiction code, e.g. "EU" or "HU"
}

// JurisdictionEU is the shared supranational jurisdiction. Retrieval
// filters match it in addition to the requested national jurisdiction.
const JurisdictionEU = "EU"

// Chunk is a bounded text segment derived from a document, the unit of
// embedding and retrieval.
type Chunk struct {
	ID          string           `json:"id"`           // "<documentID>_chunk_<index>", unique across the store
	Text        string           `json:"text"`         // Segment text
	Index       int              `json:"index"`        // Position within the source document (0-based)
	References  []LegalReference `json:"references"`   // Legal references extracted from the segment
	DocumentID  string           `json:"document_id"`  // Source document
	Category    string           `json:"category"`     // Inherited from the source document
	LastUpdated time.Time        `json:"last_updated"` // Ingestion timestamp
}

// ChunkID builds the canonical chunk identifier for a document segment.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// ReferenceKind classifies a structured legal reference.
type ReferenceKind string

const (
	RefRegulationArticle       ReferenceKind = "regulation_article"        // e.g. Article 6(1)(a) of the GDPR
	RefSupranationalActArticle ReferenceKind = "supranational_act_article" // e.g. Article 5 of the ePrivacy Directive
	RefNationalDecree          ReferenceKind = "national_decree"           // e.g. Decree No. 152/2021
	RefAuthorityDecision       ReferenceKind = "authority_decision"        // e.g. DPA Decision 44/2023
)

// LegalReference is a structured legal citation extracted from chunk text.
// It is derived metadata only and never authoritative.
type LegalReference struct {
	Kind         ReferenceKind `json:"kind"`
	Article      string        `json:"article,omitempty"`      // Article number for article kinds
	Paragraph    string        `json:"paragraph,omitempty"`    // Optional paragraph, e.g. "1" in 6(1)(a)
	Subparagraph string        `json:"subparagraph,omitempty"` // Optional lettered sub-paragraph, e.g. "a"
	Number       string        `json:"number,omitempty"`       // Decree/decision number
	Year         string        `json:"year,omitempty"`         // Decree/decision year
	Matched      string        `json:"matched"`                // Literal matched text
}
