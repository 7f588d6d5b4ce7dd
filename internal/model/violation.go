package model

// ViolationType is the closed set of detectable non-compliance signals.
type ViolationType string

const (
	ViolationBiometricProcessing ViolationType = "unauthorized_biometric_processing"
	ViolationMissingPolicy       ViolationType = "missing_privacy_policy"
	ViolationCookieConsent       ViolationType = "cookie_consent_violation"
	ViolationDataTransfer        ViolationType = "unauthorized_data_transfer"
	ViolationMinorData           ViolationType = "minor_data_processing"

	// ViolationUnknown is the explicit variant for unrecognized external
	// input (e.g. remediation lookups for types this build does not know).
	ViolationUnknown ViolationType = "unknown"
)

// KnownViolationTypes lists every violation type the detector can emit.
var KnownViolationTypes = []ViolationType{
	ViolationBiometricProcessing,
	ViolationMissingPolicy,
	ViolationCookieConsent,
	ViolationDataTransfer,
	ViolationMinorData,
}

// ParseViolationType maps external input onto the closed enum.
func ParseViolationType(s string) ViolationType {
	for _, t := range KnownViolationTypes {
		if string(t) == s {
			return t
		}
	}
	return ViolationUnknown
}

// Severity ranks the gravity of a violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Violation is a typed record of a detected non-compliance signal,
// prior to legal enrichment. Enrichment appends, it never mutates.
type Violation struct {
	Type          ViolationType `json:"type"`
	Severity      Severity      `json:"severity"`
	Description   string        `json:"description"`
	Evidence      []string      `json:"evidence,omitempty"` // Offending names/hosts, order preserved
	AffectsMinors bool          `json:"affects_minors"`
}

// Remediation is a recommended fix plan for a violation type.
type Remediation struct {
	Deadline string   `json:"deadline"` // e.g. "14 days"
	Actions  []string `json:"actions"`  // Ordered remediation steps
}

// EnrichedViolation is a Violation with retrieved legal context attached.
type EnrichedViolation struct {
	Violation
	SeverityDetails KnowledgeAnswer `json:"severity_details"`
	Precedents      []Precedent     `json:"precedents,omitempty"` // At most 3
	Remediation     Remediation     `json:"remediation"`
}
