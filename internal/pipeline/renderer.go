package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// Renderer writes audit reports as JSON or Markdown.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderMarkdown writes a human-readable Markdown report.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# GDPR Audit Report\n\n")
	fmt.Fprintf(&b, "- **URL**: %s\n", report.URL)
	fmt.Fprintf(&b, "- **Scan date**: %s\n", report.ScanDate.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "- **Scan ID**: %s\n\n", report.ID)

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Compliance score: **%d/100**\n", report.Summary.ComplianceScore)
	fmt.Fprintf(&b, "- Violations: %d", report.Summary.TotalViolations)
	if n := report.Summary.BySeverity[model.SeverityCritical]; n > 0 {
		fmt.Fprintf(&b, " (%d critical)", n)
	}
	b.WriteString("\n")
	if report.Summary.AffectsMinors {
		b.WriteString("- **Minors are affected by at least one violation**\n")
	}
	fmt.Fprintf(&b, "- Estimated fine range: EUR %d - %d\n\n",
		report.Summary.EstimatedFineRange.Min, report.Summary.EstimatedFineRange.Max)

	if len(report.Violations) > 0 {
		b.WriteString("## Violations\n\n")
		for i, v := range report.Violations {
			fmt.Fprintf(&b, "### %d. %s (%s)\n\n", i+1, v.Type, v.Severity)
			fmt.Fprintf(&b, "%s\n\n", v.Description)
			if len(v.Evidence) > 0 {
				fmt.Fprintf(&b, "Evidence: %s\n\n", strings.Join(v.Evidence, ", "))
			}
			if len(v.Precedents) > 0 {
				b.WriteString("Precedents:\n\n")
				for _, p := range v.Precedents {
					fmt.Fprintf(&b, "- %s", p.Case)
					if p.Fine != "" {
						fmt.Fprintf(&b, " (fine: %s)", p.Fine)
					}
					b.WriteString("\n")
				}
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "Remediation (%s):\n\n", v.Remediation.Deadline)
			for _, a := range v.Remediation.Actions {
				fmt.Fprintf(&b, "- %s\n", a)
			}
			b.WriteString("\n")
		}
	}

	if len(report.LegalSources) > 0 {
		b.WriteString("## Legal Sources\n\n")
		for _, s := range report.LegalSources {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by gdpr-audit. This report is informational and not legal advice.\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderSummary prints a short scan summary to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\nScan: %s\n", report.URL)
	fmt.Printf("Compliance score: %d/100\n", report.Summary.ComplianceScore)
	fmt.Printf("Violations: %d", report.Summary.TotalViolations)
	if report.Summary.TotalViolations > 0 {
		var parts []string
		for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityHigh, model.SeverityMedium} {
			if n := report.Summary.BySeverity[sev]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, sev))
			}
		}
		fmt.Printf(" (%s)", strings.Join(parts, ", "))
	}
	fmt.Println()
	if report.Summary.AffectsMinors {
		fmt.Println("Warning: violations affect minors")
	}
	if report.Summary.TotalViolations > 0 {
		fmt.Printf("Estimated fine range: EUR %d - %d\n",
			report.Summary.EstimatedFineRange.Min, report.Summary.EstimatedFineRange.Max)
	}
}
