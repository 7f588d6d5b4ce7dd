package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// fakeLookup stubs the knowledge service for rule tests.
type fakeLookup struct {
	answer *model.KnowledgeAnswer
	err    error
}

func (f *fakeLookup) GetLegalRequirement(ctx context.Context, reqType model.RequirementType, qctx model.QueryContext) (*model.KnowledgeAnswer, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.answer != nil {
		return f.answer, nil
	}
	return &model.KnowledgeAnswer{RequirementType: reqType}, nil
}

func (f *fakeLookup) SearchLegalPrecedents(ctx context.Context, violationType model.ViolationType, qctx model.QueryContext) ([]model.Precedent, error) {
	return nil, nil
}

func newDetector() *Detector {
	return NewDetector(&fakeLookup{}, "HU")
}

func findByType(violations []model.Violation, t model.ViolationType) []model.Violation {
	var out []model.Violation
	for _, v := range violations {
		if v.Type == t {
			out = append(out, v)
		}
	}
	return out
}

func TestDetect_ProctoringBiometric(t *testing.T) {
	signals := &model.ScanSignalSet{
		Biometric: []model.BiometricSignal{
			{Kind: model.BiometricProctoring, Provider: "proctorio", Evidence: "script src"},
		},
		Education: &model.EducationFeatures{CollectsMinorData: true},
	}

	violations, err := newDetector().Detect(context.Background(), signals)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	found := findByType(violations, model.ViolationBiometricProcessing)
	if len(found) != 1 {
		t.Fatalf("Expected 1 biometric violation, got %d", len(found))
	}
	if found[0].Severity != model.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", found[0].Severity)
	}
	if !found[0].AffectsMinors {
		t.Error("Expected AffectsMinors = true when minor data is collected")
	}
}

func TestDetect_CookieConsent(t *testing.T) {
	signals := &model.ScanSignalSet{
		Cookies: []model.CookieSignal{
			{Name: "session_id"},
			{Name: "_ga"},
		},
	}

	violations, err := newDetector().Detect(context.Background(), signals)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	found := findByType(violations, model.ViolationCookieConsent)
	if len(found) != 1 {
		t.Fatalf("Expected exactly 1 aggregate cookie violation, got %d", len(found))
	}

	evidence := found[0].Evidence
	if len(evidence) != 1 || evidence[0] != "_ga" {
		t.Errorf("Expected evidence [_ga], got %v", evidence)
	}
	for _, e := range evidence {
		if e == "session_id" {
			t.Error("Essential cookie session_id must not appear in evidence")
		}
	}
}

func TestDetect_EssentialCookiesOnly(t *testing.T) {
	signals := &model.ScanSignalSet{
		Cookies: []model.CookieSignal{
			{Name: "PHPSESSION"},
			{Name: "csrf_token"},
			{Name: "auth_state"},
		},
	}

	violations, err := newDetector().Detect(context.Background(), signals)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if found := findByType(violations, model.ViolationCookieConsent); len(found) != 0 {
		t.Errorf("Expected no cookie violation, got %+v", found)
	}
}

func TestDetect_MissingPrivacyPolicy(t *testing.T) {
	signals := &model.ScanSignalSet{
		Biometric: []model.BiometricSignal{
			{Kind: model.BiometricWebcam, Evidence: "getUserMedia in app.js"},
		},
	}

	violations, err := newDetector().Detect(context.Background(), signals)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	found := findByType(violations, model.ViolationMissingPolicy)
	if len(found) != 1 || found[0].Severity != model.SeverityHigh {
		t.Fatalf("Expected 1 high-severity missing-policy violation, got %+v", found)
	}
	if len(found[0].Evidence) != 1 || found[0].Evidence[0] != "getUserMedia in app.js" {
		t.Errorf("Evidence = %v, want the webcam indicator", found[0].Evidence)
	}

	// A webcam signal without recorded evidence yields an empty evidence
	// list, never an empty-string entry.
	bare := &model.ScanSignalSet{
		Biometric: []model.BiometricSignal{{Kind: model.BiometricWebcam}},
	}
	violations, err = newDetector().Detect(context.Background(), bare)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	found = findByType(violations, model.ViolationMissingPolicy)
	if len(found) != 1 {
		t.Fatalf("Expected 1 missing-policy violation, got %+v", found)
	}
	for _, e := range found[0].Evidence {
		if e == "" {
			t.Errorf("Evidence contains an empty string: %v", found[0].Evidence)
		}
	}

	// With a discoverable policy link the rule does not fire.
	signals.PrivacyPolicyURL = "https://edu.example/privacy"
	violations, _ = newDetector().Detect(context.Background(), signals)
	if found := findByType(violations, model.ViolationMissingPolicy); len(found) != 0 {
		t.Errorf("Expected no violation with policy present, got %+v", found)
	}
}

func TestDetect_RiskyThirdPartyServices(t *testing.T) {
	signals := &model.ScanSignalSet{
		ThirdPartyService: []model.ThirdPartySignal{
			{Name: "Google Analytics", Host: "www.google-analytics.com", Category: model.ServiceAnalytics},
			{Name: "Facebook Pixel", Host: "connect.facebook.net", Category: model.ServiceSocial},
			{Name: "jsDelivr", Host: "cdn.jsdelivr.net", Category: model.ServiceCDN},
		},
	}

	violations, err := newDetector().Detect(context.Background(), signals)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	found := findByType(violations, model.ViolationDataTransfer)
	if len(found) != 2 {
		t.Fatalf("Expected 2 transfer violations (CDN excluded), got %d", len(found))
	}
}

func TestDetect_MinorDataProcessing(t *testing.T) {
	lookup := &fakeLookup{
		answer: &model.KnowledgeAnswer{
			Content:    "Guardian consent is mandatory for under-16 users. Further detail follows.",
			Confidence: 0.8,
		},
	}
	d := NewDetector(lookup, "HU")

	signals := &model.ScanSignalSet{
		Education: &model.EducationFeatures{CollectsMinorData: true, HasExamFeatures: true},
	}

	violations, err := d.Detect(context.Background(), signals)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	found := findByType(violations, model.ViolationMinorData)
	if len(found) != 1 {
		t.Fatalf("Expected 1 minor-data violation, got %d", len(found))
	}
	if found[0].Severity != model.SeverityCritical || !found[0].AffectsMinors {
		t.Errorf("Unexpected violation: %+v", found[0])
	}

	// No exam features: rule does not fire.
	signals.Education.HasExamFeatures = false
	violations, _ = d.Detect(context.Background(), signals)
	if found := findByType(violations, model.ViolationMinorData); len(found) != 0 {
		t.Errorf("Expected no violation without exam features, got %+v", found)
	}
}

func TestDetect_KnowledgeFailurePropagates(t *testing.T) {
	d := NewDetector(&fakeLookup{err: errors.New("provider down")}, "HU")

	signals := &model.ScanSignalSet{
		Education: &model.EducationFeatures{CollectsMinorData: true, HasExamFeatures: true},
	}

	if _, err := d.Detect(context.Background(), signals); err == nil {
		t.Error("Expected knowledge lookup failure to propagate")
	}
}

func TestDetect_CleanPlatform(t *testing.T) {
	violations, err := newDetector().Detect(context.Background(), &model.ScanSignalSet{
		PrivacyPolicyURL: "https://edu.example/privacy",
		Cookies:          []model.CookieSignal{{Name: "session"}},
	})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(violations) != 0 {
		t.Errorf("Expected no violations, got %+v", violations)
	}
}
