package model

import "time"

// FineRange is an estimated fine interval in euros.
type FineRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// ComplianceSummary is the deterministic aggregate over an enriched
// violation list. Recomputing from the same list yields the same summary.
type ComplianceSummary struct {
	TotalViolations    int              `json:"total_violations"`
	BySeverity         map[Severity]int `json:"by_severity"`
	AffectsMinors      bool             `json:"affects_minors"`
	EstimatedFineRange FineRange        `json:"estimated_fine_range"`
	ComplianceScore    int              `json:"compliance_score"` // 0-100, penalty based
}

// Report is the complete audit report for a single platform scan.
// It is the sole externally persisted artifact of this core.
type Report struct {
	ID           string              `json:"id"` // Scan identifier (UUID)
	URL          string              `json:"url"`
	ScanDate     time.Time           `json:"scan_date"`
	Signals      ScanSignalSet       `json:"signals"`
	Violations   []EnrichedViolation `json:"violations"`
	Summary      ComplianceSummary   `json:"summary"`
	LegalSources []string            `json:"legal_sources,omitempty"` // Document names cited across enrichments
}
