package enrich

import (
	"context"
	"fmt"

	"github.com/valefoxdev101/gdpr-education-audit/internal/knowledge"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/worker"
)

const maxPrecedents = 3

// Enricher attaches retrieved legal context (severity assessment,
// precedents, remediation plan) to detected violations. Violations are
// independent, so enrichment fans out over a bounded worker pool.
type Enricher struct {
	knowledge    knowledge.Lookup
	jurisdiction string
	workers      int
}

// NewEnricher creates an enricher with the given fan-out bound.
func NewEnricher(lookup knowledge.Lookup, jurisdiction string, workers int) *Enricher {
	if workers <= 0 {
		workers = 5
	}
	return &Enricher{
		knowledge:    lookup,
		jurisdiction: jurisdiction,
		workers:      workers,
	}
}

// enrichJob enriches a single violation. Jobs share no mutable state;
// each writes only its own result.
type enrichJob struct {
	enricher  *Enricher
	index     int
	violation model.Violation
}

// enrichResult carries the enriched violation and its input position so
// output order can be restored after concurrent execution.
type enrichResult struct {
	index    int
	enriched model.EnrichedViolation
	err      error
}

func (r *enrichResult) GetError() error { return r.err }

func (j *enrichJob) Execute(ctx context.Context) worker.Result {
	enriched, err := j.enricher.enrichOne(ctx, j.violation)
	if err != nil {
		return &enrichResult{index: j.index, err: fmt.Errorf("enrich %s: %w", j.violation.Type, err)}
	}
	return &enrichResult{index: j.index, enriched: *enriched}
}

// Enrich enriches all violations concurrently, preserving input order in
// the output. A failure for any violation fails the whole enrichment:
// a partially enriched report would understate the legal exposure.
func (e *Enricher) Enrich(ctx context.Context, violations []model.Violation) ([]model.EnrichedViolation, error) {
	if len(violations) == 0 {
		return []model.EnrichedViolation{}, nil
	}

	pool := worker.NewPool(e.workers)
	pool.Start()

	for i, v := range violations {
		pool.Submit(&enrichJob{enricher: e, index: i, violation: v})
	}

	results := pool.Wait()

	enriched := make([]model.EnrichedViolation, len(violations))
	for _, r := range results {
		res := r.(*enrichResult)
		if res.err != nil {
			return nil, res.err
		}
		enriched[res.index] = res.enriched
	}
	return enriched, nil
}

// enrichOne fetches severity details, precedents and the remediation
// plan for a single violation. The violation's own fields, including
// evidence order, pass through verbatim.
func (e *Enricher) enrichOne(ctx context.Context, v model.Violation) (*model.EnrichedViolation, error) {
	severity, err := e.knowledge.GetLegalRequirement(ctx, model.RequirementViolationSeverity, model.QueryContext{
		Jurisdiction:  e.jurisdiction,
		ViolationType: string(v.Type),
		AffectsMinors: v.AffectsMinors,
	})
	if err != nil {
		return nil, fmt.Errorf("severity assessment: %w", err)
	}

	precedents, err := e.knowledge.SearchLegalPrecedents(ctx, v.Type, model.QueryContext{
		Jurisdiction: e.jurisdiction,
	})
	if err != nil {
		return nil, fmt.Errorf("precedent search: %w", err)
	}
	if len(precedents) > maxPrecedents {
		precedents = precedents[:maxPrecedents]
	}

	return &model.EnrichedViolation{
		Violation:       v,
		SeverityDetails: *severity,
		Precedents:      precedents,
		Remediation:     remediationFor(v.Type),
	}, nil
}
