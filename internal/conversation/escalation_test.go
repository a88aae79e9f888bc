package conversation

import "testing"

func TestDetectTriggerPhrase(t *testing.T) {
	tests := []struct {
		message string
		reason  EscalationReason
		ok      bool
	}{
		{"do you guarantee the results?", ReasonGuaranteeOrCustom, true},
		{"is there a warranty", ReasonGuaranteeOrCustom, true},
		{"can I get a custom price", ReasonGuaranteeOrCustom, true},
		{"any discount for bulk?", ReasonGuaranteeOrCustom, true},
		{"the roof feels unsafe", ReasonSafetyOrCompliance, true},
		{"there's no access to the panels", ReasonSafetyOrCompliance, true},
		{"do I need a permit", ReasonSafetyOrCompliance, true},
		{"how much for 30 panels", "", false},
	}
	for _, tt := range tests {
		reason, ok := detectTriggerPhrase(tt.message)
		if reason != tt.reason || ok != tt.ok {
			t.Errorf("detectTriggerPhrase(%q) = (%q, %v), want (%q, %v)", tt.message, reason, ok, tt.reason, tt.ok)
		}
	}
}

func TestEscalationReplySequence(t *testing.T) {
	state := NewState()

	if got := escalationReply(&state); got != escalationAskContactMethod {
		t.Fatalf("first reply = %q", got)
	}
	if state.LastPromptedField != SlotContactMethod {
		t.Fatalf("LastPromptedField = %q", state.LastPromptedField)
	}

	state.setSlot(SlotContactMethod, "text")
	if got := escalationReply(&state); got != escalationAskCallbackWindow {
		t.Fatalf("second reply = %q", got)
	}
	if state.LastPromptedField != SlotCallbackWindow {
		t.Fatalf("LastPromptedField = %q", state.LastPromptedField)
	}

	state.setSlot(SlotCallbackWindow, "tomorrow morning")
	if got := escalationReply(&state); got != escalationSatisfied {
		t.Fatalf("closing reply = %q", got)
	}
	if state.LastPromptedField != "" {
		t.Fatalf("LastPromptedField = %q, want cleared", state.LastPromptedField)
	}
}
