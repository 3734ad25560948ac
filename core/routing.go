package core

import "strings"

// Handler labels form a fixed closed set. Every routing decision dispatched by
// the orchestrator carries one of these; anything else is remapped to
// LabelGeneral before dispatch.
const (
	LabelLeadQualification = "lead_qualification"
	LabelPropertySearch    = "property_search"
	LabelPropertyDetails   = "property_details"
	LabelScheduling        = "scheduling"
	LabelMarketAnalysis    = "market_analysis"
	LabelFAQ               = "faq"
	LabelGeneral           = "general"
)

// Labels returns the closed handler label set in routing-prompt order.
func Labels() []string {
	return []string{
		LabelLeadQualification,
		LabelPropertySearch,
		LabelPropertyDetails,
		LabelScheduling,
		LabelMarketAnalysis,
		LabelFAQ,
		LabelGeneral,
	}
}

// ValidLabel reports whether label is a member of the closed set.
func ValidLabel(label string) bool {
	switch label {
	case LabelLeadQualification, LabelPropertySearch, LabelPropertyDetails,
		LabelScheduling, LabelMarketAnalysis, LabelFAQ, LabelGeneral:
		return true
	}
	return false
}

// NormalizeLabel canonicalizes classifier output: whitespace trimmed,
// lowercased, and anything outside the closed set remapped to LabelGeneral.
func NormalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if !ValidLabel(label) {
		return LabelGeneral
	}
	return label
}

// RoutingDecision selects which handler processes the current turn. Produced
// fresh by the classifier each turn; the last decision is kept on the session
// for diagnostics only.
type RoutingDecision struct {
	Label     string `json:"agent"`
	Rationale string `json:"reasoning"`
}
