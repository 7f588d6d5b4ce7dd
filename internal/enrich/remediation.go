package enrich

import "github.com/valefoxdev101/gdpr-education-audit/internal/model"

// remediationPlans maps every violation type to its fix plan. The table
// is exhaustive over the closed enum; a completeness test enforces it.
var remediationPlans = map[model.ViolationType]model.Remediation{
	model.ViolationBiometricProcessing: {
		Deadline: "14 days",
		Actions: []string{
			"Suspend the proctoring integration until a legal basis is documented",
			"Run a data protection impact assessment for biometric processing",
			"Obtain explicit consent or switch to a non-biometric alternative",
			"Notify affected users about past processing",
		},
	},
	model.ViolationMissingPolicy: {
		Deadline: "14 days",
		Actions: []string{
			"Publish a privacy policy covering all processing activities",
			"Link the policy from every page footer and registration form",
			"Describe webcam and recording use explicitly",
		},
	},
	model.ViolationCookieConsent: {
		Deadline: "30 days",
		Actions: []string{
			"Deploy a consent banner blocking non-essential cookies before opt-in",
			"Classify every cookie and document its purpose",
			"Honor withdrawal of consent with immediate cookie removal",
		},
	},
	model.ViolationDataTransfer: {
		Deadline: "30 days",
		Actions: []string{
			"Inventory all third-party services receiving personal data",
			"Conclude data processing agreements with each provider",
			"Verify transfer safeguards for providers outside the EEA",
		},
	},
	model.ViolationMinorData: {
		Deadline: "7 days",
		Actions: []string{
			"Implement guardian consent collection for users under the age of digital consent",
			"Minimize data collected from minor accounts",
			"Restrict exam-related processing of minor data to what is strictly necessary",
			"Appoint a contact point for guardian inquiries",
		},
	},
}

// genericRemediation is the explicit fallback for unrecognized types.
var genericRemediation = model.Remediation{
	Deadline: "30 days",
	Actions: []string{
		"Review the flagged processing activity against applicable requirements",
		"Document the legal basis or cease the activity",
	},
}

// remediationFor returns the fix plan for a violation type.
func remediationFor(t model.ViolationType) model.Remediation {
	if plan, ok := remediationPlans[t]; ok {
		return plan
	}
	return genericRemediation
}
