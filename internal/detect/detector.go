package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/valefoxdev101/gdpr-education-audit/internal/knowledge"
	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// essentialCookiePatterns is the allowlist of substrings marking a
// cookie as strictly necessary. Anything else needs consent.
var essentialCookiePatterns = []string{"session", "csrf", "auth", "security", "necessary", "required"}

// riskyServiceCategories are third-party service categories treated as
// unauthorized data transfers when detected without a legal basis check.
var riskyServiceCategories = map[model.ServiceCategory]bool{
	model.ServiceAnalytics: true,
	model.ServiceAds:       true,
	model.ServiceSocial:    true,
}

// Detector turns collected platform signals into typed violations. Each
// rule is evaluated independently; a scan can produce zero or many
// violations of the same type.
type Detector struct {
	knowledge    knowledge.Lookup
	jurisdiction string
}

// NewDetector creates a detector that consults the given knowledge
// service for requirement definitions.
func NewDetector(lookup knowledge.Lookup, jurisdiction string) *Detector {
	return &Detector{knowledge: lookup, jurisdiction: jurisdiction}
}

// Detect evaluates every detection rule against the signal set.
func (d *Detector) Detect(ctx context.Context, signals *model.ScanSignalSet) ([]model.Violation, error) {
	var violations []model.Violation

	violations = append(violations, d.detectBiometric(signals)...)

	if v := d.detectMissingPolicy(signals); v != nil {
		violations = append(violations, *v)
	}

	if v := d.detectCookieConsent(signals); v != nil {
		violations = append(violations, *v)
	}

	violations = append(violations, d.detectDataTransfers(signals)...)

	minorViolation, err := d.detectMinorData(ctx, signals)
	if err != nil {
		return nil, err
	}
	if minorViolation != nil {
		violations = append(violations, *minorViolation)
	}

	return violations, nil
}

// detectBiometric flags every proctoring-like third-party service as
// unauthorized biometric processing.
func (d *Detector) detectBiometric(signals *model.ScanSignalSet) []model.Violation {
	affectsMinors := signals.Education != nil && signals.Education.CollectsMinorData

	var violations []model.Violation
	for _, b := range signals.Biometric {
		if b.Kind != model.BiometricProctoring {
			continue
		}

		evidence := []string{b.Provider}
		if b.Evidence != "" {
			evidence = append(evidence, b.Evidence)
		}

		violations = append(violations, model.Violation{
			Type:          model.ViolationBiometricProcessing,
			Severity:      model.SeverityCritical,
			Description:   fmt.Sprintf("Third-party proctoring service %q processes biometric data without a verified legal basis", b.Provider),
			Evidence:      evidence,
			AffectsMinors: affectsMinors,
		})
	}
	return violations
}

// detectMissingPolicy flags webcam capability without a discoverable
// privacy policy link.
func (d *Detector) detectMissingPolicy(signals *model.ScanSignalSet) *model.Violation {
	if signals.PrivacyPolicyURL != "" {
		return nil
	}

	for _, b := range signals.Biometric {
		if b.Kind == model.BiometricWebcam {
			var evidence []string
			if b.Evidence != "" {
				evidence = append(evidence, b.Evidence)
			}
			return &model.Violation{
				Type:        model.ViolationMissingPolicy,
				Severity:    model.SeverityHigh,
				Description: "Webcam access detected but no privacy policy link is discoverable",
				Evidence:    evidence,
			}
		}
	}
	return nil
}

// detectCookieConsent aggregates all non-essential cookies into a single
// violation with the offending cookie names as evidence.
func (d *Detector) detectCookieConsent(signals *model.ScanSignalSet) *model.Violation {
	var offending []string
	for _, c := range signals.Cookies {
		if !isEssentialCookie(c.Name) {
			offending = append(offending, c.Name)
		}
	}
	if len(offending) == 0 {
		return nil
	}

	return &model.Violation{
		Type:        model.ViolationCookieConsent,
		Severity:    model.SeverityMedium,
		Description: fmt.Sprintf("%d non-essential cookies set without a consent mechanism", len(offending)),
		Evidence:    offending,
	}
}

// detectDataTransfers flags every risky third-party service found.
func (d *Detector) detectDataTransfers(signals *model.ScanSignalSet) []model.Violation {
	var violations []model.Violation
	for _, svc := range signals.ThirdPartyService {
		if !riskyServiceCategories[svc.Category] {
			continue
		}
		violations = append(violations, model.Violation{
			Type:        model.ViolationDataTransfer,
			Severity:    model.SeverityHigh,
			Description: fmt.Sprintf("Personal data shared with %s service %q without documented safeguards", svc.Category, svc.Name),
			Evidence:    []string{svc.Host},
		})
	}
	return violations
}

// detectMinorData flags platforms that both collect minor data and run
// exam features. The applicable minor-protection requirement text is
// retrieved from the knowledge service; a lookup failure propagates.
func (d *Detector) detectMinorData(ctx context.Context, signals *model.ScanSignalSet) (*model.Violation, error) {
	edu := signals.Education
	if edu == nil || !edu.CollectsMinorData || !edu.HasExamFeatures {
		return nil, nil
	}

	answer, err := d.knowledge.GetLegalRequirement(ctx, model.RequirementMinorProtection, model.QueryContext{
		Jurisdiction:  d.jurisdiction,
		AffectsMinors: true,
	})
	if err != nil {
		return nil, fmt.Errorf("minor protection requirement: %w", err)
	}

	description := "Platform collects minor data and runs exam features requiring dedicated safeguards"
	if answer.Content != "" {
		description = fmt.Sprintf("%s: %s", description, firstSentence(answer.Content))
	}

	return &model.Violation{
		Type:          model.ViolationMinorData,
		Severity:      model.SeverityCritical,
		Description:   description,
		Evidence:      []string{"collects_minor_data", "has_exam_features"},
		AffectsMinors: true,
	}, nil
}

func isEssentialCookie(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range essentialCookiePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexAny(text, ".!?"); idx > 0 && idx < len(text)-1 {
		return text[:idx+1]
	}
	if len(text) > 200 {
		return text[:200]
	}
	return text
}
