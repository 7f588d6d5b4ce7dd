package chunker

import (
	"fmt"
	"regexp"
	"time"

	"github.com/valefoxdev101/gdpr-education-audit/internal/citation"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// Options controls document segmentation.
type Options struct {
	ChunkSize         int  // Maximum chunk length in characters
	Overlap           int  // Overlap between adjacent chunks within a section
	PreserveCitations bool // Pre-split at citation boundaries
}

// DefaultOptions returns the standard segmentation parameters.
func DefaultOptions() Options {
	return Options{
		ChunkSize:         1000,
		Overlap:           200,
		PreserveCitations: true,
	}
}

// boundaryRe marks positions where a new legal unit starts: labeled
// articles/sections at line start, section signs, and numbered paragraph
// markers. Splitting before these keeps a chunk from starting mid-citation.
var boundaryRe = regexp.MustCompile(`(?m)^\s*(?:Article\s+\d+|Section\s+\d+|§\s*\d+|\(\d+\)|\d+\.\s)`)

// Split segments text into ordered chunks. When PreserveCitations is set,
// the text is first divided at citation boundaries; any section still
// longer than ChunkSize is further split with a sliding window advancing
// ChunkSize-Overlap characters per step. Concatenating chunks while
// dropping each chunk's leading overlap reconstructs the section exactly.
func Split(text string, opts Options) ([]string, error) {
	if opts.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}
	if opts.Overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", opts.Overlap)
	}
	if opts.Overlap >= opts.ChunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", opts.Overlap, opts.ChunkSize)
	}
	if text == "" {
		return nil, nil
	}

	sections := []string{text}
	if opts.PreserveCitations {
		sections = splitSections(text)
	}

	var chunks []string
	for _, section := range sections {
		chunks = append(chunks, slide([]rune(section), opts.ChunkSize, opts.Overlap)...)
	}
	return chunks, nil
}

// splitSections divides text at citation boundaries. Every character of
// the input lands in exactly one section.
func splitSections(text string) []string {
	locs := boundaryRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	var sections []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			sections = append(sections, text[prev:loc[0]])
			prev = loc[0]
		}
	}
	if prev < len(text) {
		sections = append(sections, text[prev:])
	}
	return sections
}

// slide applies the sliding window to a single section.
func slide(runes []rune, size, overlap int) []string {
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{string(runes)}
	}

	step := size - overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// ChunkDocument segments a document and pairs each chunk with the legal
// references extracted from its text.
func ChunkDocument(doc model.Document, opts Options, extractor *citation.Extractor) ([]model.Chunk, error) {
	texts, err := Split(doc.Text, opts)
	if err != nil {
		return nil, fmt.Errorf("chunk document %s: %w", doc.ID, err)
	}

	now := time.Now().UTC()
	chunks := make([]model.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = model.Chunk{
			ID:          model.ChunkID(doc.ID, i),
			Text:        text,
			Index:       i,
			References:  extractor.Extract(text),
			DocumentID:  doc.ID,
			Category:    doc.Category,
			LastUpdated: now,
		}
	}
	return chunks, nil
}
