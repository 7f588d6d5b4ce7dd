package knowledge

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/vectorstore"
)

// fineBase is the per-type base amount in euros for potential-fine
// estimation. The retrieved fine matrix supplies the legal basis; the
// amounts themselves stay a literal table so estimates are deterministic.
var fineBase = map[model.ViolationType]int64{
	model.ViolationBiometricProcessing: 200_000,
	model.ViolationMissingPolicy:       75_000,
	model.ViolationCookieConsent:       25_000,
	model.ViolationDataTransfer:        100_000,
	model.ViolationMinorData:           250_000,
}

const fineBaseDefault int64 = 50_000

// CalculatePotentialFine estimates the total fine exposure for a set of
// violations. Each violation contributes its base amount, doubled for
// critical severity. The legal basis citations come from the retrieved
// fine calculation matrix.
func (s *Service) CalculatePotentialFine(ctx context.Context, violations []model.Violation) (*model.FineEstimate, error) {
	matrix, err := s.GetLegalRequirement(ctx, model.RequirementFineMatrix, model.QueryContext{})
	if err != nil {
		return nil, fmt.Errorf("fine calculation matrix: %w", err)
	}

	estimate := &model.FineEstimate{
		Breakdown:  make([]model.FineBreakdown, 0, len(violations)),
		LegalBasis: matrix.References,
		Confidence: matrix.Confidence,
	}

	for _, v := range violations {
		base, ok := fineBase[v.Type]
		if !ok {
			base = fineBaseDefault
		}
		amount := base
		if v.Severity == model.SeverityCritical {
			amount *= 2
		}
		estimate.Breakdown = append(estimate.Breakdown, model.FineBreakdown{
			Type:       v.Type,
			Severity:   v.Severity,
			BaseAmount: base,
			Amount:     amount,
		})
		estimate.Total += amount
	}

	return estimate, nil
}

var (
	fineAmountRe = regexp.MustCompile(`(?:EUR|€)\s?[\d][\d.,\s]*(?:\s?(?:million|thousand))?`)
	decisionDateRe = regexp.MustCompile(`\b(20\d{2}-\d{2}-\d{2}|20\d{2})\b`)
)

// mapPrecedent converts a retrieval hit from the precedents category
// into a structured precedent record.
func mapPrecedent(h vectorstore.Hit) model.Precedent {
	p := model.Precedent{
		Case:       h.Metadata[metaDocumentName],
		Decision:   summarize(h.Text, 280),
		Similarity: 1 - h.Distance,
	}
	if p.Similarity < 0 {
		p.Similarity = 0
	}

	if m := fineAmountRe.FindString(h.Text); m != "" {
		p.Fine = strings.TrimSpace(m)
	}
	if m := decisionDateRe.FindString(h.Text); m != "" {
		p.Date = m
	}
	return p
}

// summarize trims text to at most n runes on a word boundary.
func summarize(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
