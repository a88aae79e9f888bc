package conversation

import "regexp"

// EscalationReason tags why a conversation was handed to a human.
type EscalationReason string

const (
	ReasonFollowupRequested    EscalationReason = "followup_requested"
	ReasonFieldRefusal         EscalationReason = "field_collection_refusal"
	ReasonPanelCountNotInTable EscalationReason = "panel_count_not_in_pricing_table"
	ReasonGuaranteeOrCustom    EscalationReason = "guarantee_or_custom_pricing_request"
	ReasonSafetyOrCompliance   EscalationReason = "safety_or_compliance_concern"
	ReasonKnowledgeUnavailable EscalationReason = "knowledge_unavailable"
)

var (
	guaranteeRE = regexp.MustCompile(`(?i)\b(guarantee|warranty|custom price|custom pricing|discount)`)
	safetyRE    = regexp.MustCompile(`(?i)\b(unsafe|hazard|no access|permit)`)
)

// detectTriggerPhrase checks the vocabulary-based escalation triggers.
// Each is independently sufficient.
func detectTriggerPhrase(message string) (EscalationReason, bool) {
	if guaranteeRE.MatchString(message) {
		return ReasonGuaranteeOrCustom, true
	}
	if safetyRE.MatchString(message) {
		return ReasonSafetyOrCompliance, true
	}
	return "", false
}

// Escalation replies walk a small two-step machine collecting handoff
// contact preferences: first the contact method, then a callback window,
// then a closing acknowledgement once both are known.
const (
	escalationAskContactMethod  = "I can connect you with a human. Would you prefer a text or a call?"
	escalationAskCallbackWindow = "Thanks! What's a good callback window for them to reach you?"
	escalationSatisfied         = "Thanks! Our team will follow up soon."
)

// escalationReply phrases the next handoff prompt from the contact
// fields still missing. Terminal state is the acknowledgement.
func escalationReply(state *State) string {
	missing := state.missingContactFields()
	for _, field := range missing {
		switch field {
		case SlotContactMethod:
			state.LastPromptedField = SlotContactMethod
			return escalationAskContactMethod
		case SlotCallbackWindow:
			state.LastPromptedField = SlotCallbackWindow
			return escalationAskCallbackWindow
		}
	}
	state.LastPromptedField = ""
	return escalationSatisfied
}
