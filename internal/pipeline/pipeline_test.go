package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

type fakeCollector struct {
	signals *model.ScanSignalSet
	err     error
}

func (f *fakeCollector) Collect(ctx context.Context, rawURL string) (*model.ScanSignalSet, error) {
	return f.signals, f.err
}

type fakeLookup struct{}

func (f *fakeLookup) GetLegalRequirement(ctx context.Context, reqType model.RequirementType, qctx model.QueryContext) (*model.KnowledgeAnswer, error) {
	return &model.KnowledgeAnswer{
		RequirementType: reqType,
		Content:         "Biometric data of students requires explicit consent under Article 9 of the GDPR.",
		Sources: []model.AnswerSource{
			{DocumentID: "regulations/gdpr", DocumentName: "GDPR", Relevance: 0.9},
		},
		Confidence: 0.9,
	}, nil
}

func (f *fakeLookup) SearchLegalPrecedents(ctx context.Context, violationType model.ViolationType, qctx model.QueryContext) ([]model.Precedent, error) {
	return []model.Precedent{
		{Case: "NAIH Decision No. 85/2022", Fine: "150,000", Similarity: 0.8},
	}, nil
}

func testSignals() *model.ScanSignalSet {
	return &model.ScanSignalSet{
		Biometric: []model.BiometricSignal{
			{Kind: model.BiometricProctoring, Provider: "proctorio"},
		},
		Education: &model.EducationFeatures{CollectsMinorData: true, HasExamFeatures: true},
	}
}

func newTestPipeline(col *fakeCollector) *Pipeline {
	return New(col, &fakeLookup{}, model.DefaultConfig())
}

func TestScanURL_BuildsCompleteReport(t *testing.T) {
	p := newTestPipeline(&fakeCollector{signals: testSignals()})

	report, err := p.ScanURL(context.Background(), "https://school.example.com")
	if err != nil {
		t.Fatalf("ScanURL: %v", err)
	}

	if report.ID == "" {
		t.Error("report ID is empty")
	}
	if report.URL != "https://school.example.com" {
		t.Errorf("URL = %q", report.URL)
	}
	if len(report.Violations) == 0 {
		t.Fatal("expected violations from proctoring + minor data signals")
	}
	if report.Summary.TotalViolations != len(report.Violations) {
		t.Errorf("summary count %d != violations %d", report.Summary.TotalViolations, len(report.Violations))
	}
	if !report.Summary.AffectsMinors {
		t.Error("expected AffectsMinors in summary")
	}
	if report.Summary.ComplianceScore >= 100 {
		t.Errorf("score = %d, want < 100", report.Summary.ComplianceScore)
	}

	found := false
	for _, s := range report.LegalSources {
		if s == "GDPR" {
			found = true
		}
	}
	if !found {
		t.Errorf("LegalSources = %v, want GDPR included", report.LegalSources)
	}

	for _, v := range report.Violations {
		if v.Remediation.Deadline == "" {
			t.Errorf("violation %s has no remediation deadline", v.Type)
		}
	}
}

func TestScanURL_CollectFailureAbortsScan(t *testing.T) {
	p := newTestPipeline(&fakeCollector{err: errors.New("connection refused")})

	if _, err := p.ScanURL(context.Background(), "https://down.example.com"); err == nil {
		t.Fatal("expected error when collection fails")
	}
}

func TestRenderReport_WritesFiles(t *testing.T) {
	p := newTestPipeline(&fakeCollector{signals: testSignals()})

	report, err := p.ScanURL(context.Background(), "https://school.example.com")
	if err != nil {
		t.Fatalf("ScanURL: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")

	if err := p.RenderReport(report, jsonPath, mdPath, false); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	if !strings.Contains(string(jsonData), report.ID) {
		t.Error("JSON report does not contain the scan ID")
	}

	mdData, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	md := string(mdData)
	if !strings.Contains(md, "# GDPR Audit Report") {
		t.Error("markdown missing title")
	}
	if !strings.Contains(md, "Compliance score") {
		t.Error("markdown missing score")
	}
}
