package citation

import (
	"regexp"
	"sort"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// Extractor parses structured legal references out of text. It is purely
// additive metadata enrichment: it never rejects or alters the text.
type Extractor struct {
	matchers []matcher
}

// matcher pairs a reference family pattern with its record builder.
type matcher struct {
	kind  model.ReferenceKind
	re    *regexp.Regexp
	build func(groups []string) model.LegalReference
}

var (
	// Article 6(1)(a) of the GDPR / of Regulation (EU) 2016/679
	regulationArticleRe = regexp.MustCompile(`Article\s+(\d+)(?:\((\d+)\))?(?:\(([a-z])\))?\s+of\s+(?:the\s+)?(?:GDPR|Regulation(?:\s+\(EU\)\s+\d+/\d+)?)`)

	// Article 5(3) of the ePrivacy Directive / of Directive 2002/58/EC
	directiveArticleRe = regexp.MustCompile(`Article\s+(\d+)(?:\((\d+)\))?(?:\(([a-z])\))?\s+of\s+(?:the\s+)?(?:[A-Za-z]+\s+)?Directive(?:\s+\d+/\d+(?:/[A-Z]+)?)?`)

	// Decree No. 152/2021 / Government Decree 230/2020
	decreeRe = regexp.MustCompile(`(?:Government\s+)?Decree\s+(?:No\.?\s*)?(\d+)/(\d{4})`)

	// Decision 44/2023 / NAIH Decision No. 85
	decisionRe = regexp.MustCompile(`(?:[A-Z]{2,6}\s+)?Decision\s+(?:No\.?\s*)?(\d+)(?:/(\d{4}))?`)
)

// NewExtractor creates a new legal reference extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		matchers: []matcher{
			{
				kind: model.RefRegulationArticle,
				re:   regulationArticleRe,
				build: func(g []string) model.LegalReference {
					return model.LegalReference{
						Kind:         model.RefRegulationArticle,
						Article:      g[1],
						Paragraph:    g[2],
						Subparagraph: g[3],
						Matched:      g[0],
					}
				},
			},
			{
				kind: model.RefSupranationalActArticle,
				re:   directiveArticleRe,
				build: func(g []string) model.LegalReference {
					return model.LegalReference{
						Kind:         model.RefSupranationalActArticle,
						Article:      g[1],
						Paragraph:    g[2],
						Subparagraph: g[3],
						Matched:      g[0],
					}
				},
			},
			{
				kind: model.RefNationalDecree,
				re:   decreeRe,
				build: func(g []string) model.LegalReference {
					return model.LegalReference{
						Kind:    model.RefNationalDecree,
						Number:  g[1],
						Year:    g[2],
						Matched: g[0],
					}
				},
			},
			{
				kind: model.RefAuthorityDecision,
				re:   decisionRe,
				build: func(g []string) model.LegalReference {
					return model.LegalReference{
						Kind:    model.RefAuthorityDecision,
						Number:  g[1],
						Year:    g[2],
						Matched: g[0],
					}
				},
			},
		},
	}
}

// positioned carries a reference with its match offset for ordering.
type positioned struct {
	start int
	ref   model.LegalReference
}

// Extract returns every legal reference found in text, in order of
// occurrence. Repeated matches of the same family are all returned.
func (e *Extractor) Extract(text string) []model.LegalReference {
	var found []positioned

	for _, m := range e.matchers {
		locs := m.re.FindAllStringSubmatchIndex(text, -1)
		for _, loc := range locs {
			groups := submatchStrings(text, loc)
			found = append(found, positioned{
				start: loc[0],
				ref:   m.build(groups),
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].start < found[j].start
	})

	refs := make([]model.LegalReference, len(found))
	for i, p := range found {
		refs[i] = p.ref
	}
	return refs
}

// submatchStrings expands a submatch index slice into group strings,
// with "" for groups that did not participate.
func submatchStrings(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] >= 0 {
			groups[i/2] = text[loc[i]:loc[i+1]]
		}
	}
	return groups
}
