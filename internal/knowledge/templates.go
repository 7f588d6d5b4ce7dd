package knowledge

import (
	"fmt"

	"github.com/valefoxdev101/gdpr-education-audit/internal/model"
)

// queryTemplates maps every recognized requirement type to its retrieval
// query builder. The completeness of this table over the closed enum is
// enforced by a test.
var queryTemplates = map[model.RequirementType]func(ctx model.QueryContext) string{
	model.RequirementCookieConsent: func(ctx model.QueryContext) string {
		return fmt.Sprintf("cookie consent requirements and lawful basis for non-essential cookies in %s", jurisdictionLabel(ctx))
	},
	model.RequirementPrivacyPolicy: func(ctx model.QueryContext) string {
		return fmt.Sprintf("mandatory privacy policy content and accessibility requirements in %s", jurisdictionLabel(ctx))
	},
	model.RequirementBiometricProcessing: func(ctx model.QueryContext) string {
		return fmt.Sprintf("lawful basis and restrictions for biometric data processing in %s", jurisdictionLabel(ctx))
	},
	model.RequirementMinorProtection: func(ctx model.QueryContext) string {
		return fmt.Sprintf("protection requirements for processing personal data of minors on education platforms in %s", jurisdictionLabel(ctx))
	},
	model.RequirementDataTransfer: func(ctx model.QueryContext) string {
		return fmt.Sprintf("requirements for transfers of personal data to third-party services in %s", jurisdictionLabel(ctx))
	},
	model.RequirementViolationSeverity: func(ctx model.QueryContext) string {
		q := fmt.Sprintf("severity assessment and aggravating factors for %s violations", ctx.ViolationType)
		if ctx.AffectsMinors {
			q += " affecting minors"
		}
		return q
	},
	model.RequirementFineMatrix: func(ctx model.QueryContext) string {
		return fmt.Sprintf("administrative fine tiers, maximum amounts and calculation factors in %s", jurisdictionLabel(ctx))
	},
	model.RequirementLegalPrecedents: func(ctx model.QueryContext) string {
		return fmt.Sprintf("supervisory authority enforcement decisions concerning %s", ctx.ViolationType)
	},
}

// buildQuery returns the retrieval query for a requirement type.
// Unrecognized types fall back to a generic template embedding the raw
// context detail.
func buildQuery(reqType model.RequirementType, ctx model.QueryContext) string {
	if tmpl, ok := queryTemplates[reqType]; ok {
		return tmpl(ctx)
	}
	return fmt.Sprintf("data protection requirements regarding %s %s", reqType, ctx.Detail)
}

func jurisdictionLabel(ctx model.QueryContext) string {
	if ctx.Jurisdiction == "" || ctx.Jurisdiction == model.JurisdictionEU {
		return "the European Union"
	}
	return "jurisdiction " + ctx.Jurisdiction
}

// precedentQuery builds the fixed precedent-search query for a violation
// type.
func precedentQuery(violationType model.ViolationType) string {
	return fmt.Sprintf("enforcement decisions, fines and outcomes for %s cases", violationType)
}
