package citation

import (
	"testing"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

func TestExtract_RegulationArticle(t *testing.T) {
	e := NewExtractor()

	refs := e.Extract("Article 6(1)(a) of the GDPR")

	if len(refs) != 1 {
		t.Fatalf("Expected exactly 1 reference, got %d: %+v", len(refs), refs)
	}
	ref := refs[0]
	if ref.Kind != model.RefRegulationArticle {
		t.Errorf("Expected kind %s, got %s", model.RefRegulationArticle, ref.Kind)
	}
	if ref.Article != "6" {
		t.Errorf("Expected article 6, got %q", ref.Article)
	}
	if ref.Paragraph != "1" {
		t.Errorf("Expected paragraph 1, got %q", ref.Paragraph)
	}
	if ref.Subparagraph != "a" {
		t.Errorf("Expected subparagraph a, got %q", ref.Subparagraph)
	}
}

func TestExtract_ArticleWithoutParagraph(t *testing.T) {
	e := NewExtractor()

	refs := e.Extract("Processing must comply with Article 9 of the GDPR in all cases.")

	if len(refs) != 1 {
		t.Fatalf("Expected 1 reference, got %d", len(refs))
	}
	if refs[0].Article != "9" || refs[0].Paragraph != "" || refs[0].Subparagraph != "" {
		t.Errorf("Unexpected fields: %+v", refs[0])
	}
}

func TestExtract_AllFamilies(t *testing.T) {
	text := "Under Article 8(1) of the GDPR and Article 5(3) of the ePrivacy Directive, " +
		"see also Government Decree 230/2020 and NAIH Decision No. 85/2022."

	e := NewExtractor()
	refs := e.Extract(text)

	if len(refs) != 4 {
		t.Fatalf("Expected 4 references, got %d: %+v", len(refs), refs)
	}

	// Order of occurrence in text
	wantKinds := []model.ReferenceKind{
		model.RefRegulationArticle,
		model.RefSupranationalActArticle,
		model.RefNationalDecree,
		model.RefAuthorityDecision,
	}
	for i, want := range wantKinds {
		if refs[i].Kind != want {
			t.Errorf("Reference %d: expected kind %s, got %s", i, want, refs[i].Kind)
		}
	}

	if refs[2].Number != "230" || refs[2].Year != "2020" {
		t.Errorf("Decree fields wrong: %+v", refs[2])
	}
	if refs[3].Number != "85" || refs[3].Year != "2022" {
		t.Errorf("Decision fields wrong: %+v", refs[3])
	}
}

func TestExtract_NoDeduplication(t *testing.T) {
	e := NewExtractor()

	refs := e.Extract("Article 6(1)(a) of the GDPR applies. Article 6(1)(a) of the GDPR is repeated.")

	if len(refs) != 2 {
		t.Errorf("Expected repeated matches to all be returned, got %d", len(refs))
	}
}

func TestExtract_DecisionWithoutYear(t *testing.T) {
	e := NewExtractor()

	refs := e.Extract("See Decision 12 of the supervisory authority.")

	if len(refs) != 1 {
		t.Fatalf("Expected 1 reference, got %d", len(refs))
	}
	if refs[0].Number != "12" || refs[0].Year != "" {
		t.Errorf("Unexpected fields: %+v", refs[0])
	}
}

func TestExtract_Empty(t *testing.T) {
	e := NewExtractor()

	if refs := e.Extract("Plain text with no citations."); len(refs) != 0 {
		t.Errorf("Expected no references, got %+v", refs)
	}
}
