package score

import (
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// severityPenalties deducts compliance points per violation.
var severityPenalties = map[model.Severity]int{
	model.SeverityCritical: 25,
	model.SeverityHigh:     15,
	model.SeverityMedium:   5,
}

// fineBands is the per-violation fine interval in euros by severity.
var fineBands = map[model.Severity]model.FineRange{
	model.SeverityCritical: {Min: 100_000, Max: 500_000},
	model.SeverityHigh:     {Min: 50_000, Max: 200_000},
	model.SeverityMedium:   {Min: 10_000, Max: 50_000},
}

// Scorer aggregates enriched violations into a compliance summary.
type Scorer struct{}

// NewScorer creates a new scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Summarize computes the deterministic compliance summary. It is a pure
// function of the violation list: order independent, idempotent, and the
// compliance score never goes below zero.
func (s *Scorer) Summarize(violations []model.EnrichedViolation) model.ComplianceSummary {
	summary := model.ComplianceSummary{
		TotalViolations: len(violations),
		BySeverity:      make(map[model.Severity]int),
		ComplianceScore: 100,
	}

	penalty := 0
	for _, v := range violations {
		summary.BySeverity[v.Severity]++
		summary.AffectsMinors = summary.AffectsMinors || v.AffectsMinors

		penalty += severityPenalties[v.Severity]

		band := fineBands[v.Severity]
		summary.EstimatedFineRange.Min += band.Min
		summary.EstimatedFineRange.Max += band.Max
	}

	summary.ComplianceScore = 100 - penalty
	if summary.ComplianceScore < 0 {
		summary.ComplianceScore = 0
	}

	return summary
}
