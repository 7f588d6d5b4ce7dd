package model

// RequirementType is a closed category of legal question the knowledge
// service can answer.
type RequirementType string

const (
	RequirementCookieConsent       RequirementType = "cookie_consent"
	RequirementPrivacyPolicy       RequirementType = "privacy_policy"
	RequirementBiometricProcessing RequirementType = "biometric_processing"
	RequirementMinorProtection     RequirementType = "minor_protection"
	RequirementDataTransfer        RequirementType = "data_transfer"
	RequirementViolationSeverity   RequirementType = "violation_severity"
	RequirementFineMatrix          RequirementType = "fine_calculation_matrix"
	RequirementLegalPrecedents     RequirementType = "legal_precedents"

	// RequirementUnknown is the explicit variant for unrecognized external
	// input; it maps to a generic query template embedding the raw context.
	RequirementUnknown RequirementType = "unknown"
)

// KnownRequirementTypes lists every recognized requirement type.
var KnownRequirementTypes = []RequirementType{
	RequirementCookieConsent,
	RequirementPrivacyPolicy,
	RequirementBiometricProcessing,
	RequirementMinorProtection,
	RequirementDataTransfer,
	RequirementViolationSeverity,
	RequirementFineMatrix,
	RequirementLegalPrecedents,
}

// ParseRequirementType maps external input onto the closed enum,
// returning RequirementUnknown for anything unrecognized.
func ParseRequirementType(s string) RequirementType {
	for _, t := range KnownRequirementTypes {
		if string(t) == s {
			return t
		}
	}
	return RequirementUnknown
}

// QueryContext parameterizes a knowledge query. All fields are optional;
// the canonical serialization of the whole struct is part of the cache key.
type QueryContext struct {
	Jurisdiction  string `json:"jurisdiction,omitempty"`   // Requested jurisdiction code, e.g. "HU"
	Category      string `json:"category,omitempty"`       // Restrict retrieval to a document category
	ViolationType string `json:"violation_type,omitempty"` // Set for severity/precedent queries
	AffectsMinors bool   `json:"affects_minors,omitempty"` // Whether minors are involved
	Detail        string `json:"detail,omitempty"`         // Free-form context for generic queries
}

// AnswerSource identifies a document that contributed to an answer.
type AnswerSource struct {
	DocumentID   string  `json:"document_id"`
	DocumentName string  `json:"document_name"`
	Relevance    float64 `json:"relevance"` // 1 - distance, higher is closer
}

// KnowledgeAnswer is a synthesized answer to a legal-requirement query.
type KnowledgeAnswer struct {
	RequirementType RequirementType  `json:"requirement_type"`
	Content         string           `json:"content"`    // Retrieved chunk texts, descending relevance
	Sources         []AnswerSource   `json:"sources"`    // Deduplicated by document id
	References      []LegalReference `json:"references"` // Flattened union over contributing chunks
	Confidence      float64          `json:"confidence"` // [0,1]; 0 when no hits
}

// Precedent is an enforcement case retrieved for a violation type.
type Precedent struct {
	Case       string  `json:"case"`
	Decision   string  `json:"decision"`
	Fine       string  `json:"fine,omitempty"`
	Date       string  `json:"date,omitempty"`
	Similarity float64 `json:"similarity"`
}

// FineBreakdown explains the fine contribution of a single violation.
type FineBreakdown struct {
	Type       ViolationType `json:"type"`
	Severity   Severity      `json:"severity"`
	BaseAmount int64         `json:"base_amount"`
	Amount     int64         `json:"amount"` // Base doubled for critical violations
}

// FineEstimate is the result of a potential-fine calculation.
type FineEstimate struct {
	Total      int64            `json:"total"`
	Breakdown  []FineBreakdown  `json:"breakdown"`
	LegalBasis []LegalReference `json:"legal_basis"` // Citations from the fine matrix answer
	Confidence float64          `json:"confidence"`
}
