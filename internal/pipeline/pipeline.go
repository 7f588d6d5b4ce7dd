package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/valefoxdev101/gdpr-education-audit/internal/collector"
	"github.com/valefoxdev101/gdpr-education-audit/internal/detect"
	"github.com/valefoxdev101/gdpr-education-audit/internal/enrich"
	"github.com/valefoxdev101/gdpr-education-audit/internal/knowledge"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
	"github.com/valefoxdev101/gdpr-education-audit/internal/score"
)

// Pipeline orchestrates the complete audit: collect signals, detect
// violations, enrich them with legal context and compute the summary.
type Pipeline struct {
	collector collector.Collector
	detector  *detect.Detector
	enricher  *enrich.Enricher
	scorer    *score.Scorer
	renderer  *Renderer
}

// New creates a pipeline over an already constructed knowledge lookup
// and signal collector.
func New(col collector.Collector, lookup knowledge.Lookup, cfg *model.Config) *Pipeline {
	return &Pipeline{
		collector: col,
		detector:  detect.NewDetector(lookup, cfg.Knowledge.Jurisdiction),
		enricher:  enrich.NewEnricher(lookup, cfg.Knowledge.Jurisdiction, cfg.Concurrency.EnrichWorkers),
		scorer:    score.NewScorer(),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
	}
}

// ScanURL audits a single URL and produces a complete report. Any stage
// failure aborts the scan; there are no partial reports.
func (p *Pipeline) ScanURL(ctx context.Context, url string) (*model.Report, error) {
	signals, err := p.collector.Collect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("collect signals: %w", err)
	}

	violations, err := p.detector.Detect(ctx, signals)
	if err != nil {
		return nil, fmt.Errorf("detect violations: %w", err)
	}

	enriched, err := p.enricher.Enrich(ctx, violations)
	if err != nil {
		return nil, fmt.Errorf("enrich violations: %w", err)
	}

	report := &model.Report{
		ID:           uuid.NewString(),
		URL:          url,
		ScanDate:     time.Now().UTC(),
		Signals:      *signals,
		Violations:   enriched,
		Summary:      p.scorer.Summarize(enriched),
		LegalSources: legalSources(enriched),
	}

	return report, nil
}

// RenderReport renders the report to the requested outputs and prints
// the summary to stdout.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}

// legalSources collects the distinct document names cited across all
// enrichments, sorted for stable output.
func legalSources(violations []model.EnrichedViolation) []string {
	seen := make(map[string]bool)
	var names []string
	for _, v := range violations {
		for _, src := range v.SeverityDetails.Sources {
			if src.DocumentName != "" && !seen[src.DocumentName] {
				seen[src.DocumentName] = true
				names = append(names, src.DocumentName)
			}
		}
	}
	sort.Strings(names)
	return names
}
