package conversation

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"I'd like to book a cleaning", IntentBooking},
		{"Can I schedule an appointment?", IntentBooking},
		{"what's your availability next week", IntentBooking},
		{"How much does it cost?", IntentPricing},
		{"Can I get a quote", IntentPricing},
		{"price for 20 panels", IntentPricing},
		{"give me an estimate", IntentPricing},
		{"What services do you offer?", IntentServiceInfo},
		{"what do you actually clean", IntentServiceInfo},
		{"Please call me", IntentFollowup},
		{"text me when you can", IntentFollowup},
		{"I want to talk to a human", IntentFollowup},
		{"can I speak to a representative", IntentFollowup},
		{"hello there", IntentGeneral},
		{"", IntentGeneral},
	}
	for _, tt := range tests {
		if got := ClassifyIntent(tt.message); got != tt.want {
			t.Errorf("ClassifyIntent(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

// An utterance with both booking and pricing vocabulary is always a
// booking request: the ordering is a deliberate tie-break.
func TestClassifyIntentOrdering(t *testing.T) {
	if got := ClassifyIntent("book me and tell me the price"); got != IntentBooking {
		t.Errorf("got %v, want %v", got, IntentBooking)
	}
	if got := ClassifyIntent("what's the cost of your service"); got != IntentPricing {
		t.Errorf("got %v, want %v", got, IntentPricing)
	}
	if got := ClassifyIntent("what services do you offer, or should a human call me"); got != IntentServiceInfo {
		t.Errorf("got %v, want %v", got, IntentServiceInfo)
	}
}
