package conversation

import "regexp"

// Intent is the classified purpose of one utterance.
type Intent string

const (
	IntentBooking     Intent = "booking_request"
	IntentPricing     Intent = "pricing_quote"
	IntentServiceInfo Intent = "service_info"
	IntentFollowup    Intent = "followup_request"
	IntentGeneral     Intent = "general"
)

// Classification is ordered: an utterance mentioning both booking and
// pricing vocabulary is always a booking_request. First match wins.
var intentPatterns = []struct {
	intent  Intent
	pattern *regexp.Regexp
}{
	{IntentBooking, regexp.MustCompile(`(?i)\b(book|schedule|appointment|reserve|availability)`)},
	{IntentPricing, regexp.MustCompile(`(?i)\b(price|quote|cost|estimate|how much)`)},
	{IntentServiceInfo, regexp.MustCompile(`(?i)\b(service|offer|provide|what do you)`)},
	{IntentFollowup, regexp.MustCompile(`(?i)\b(call me|text me|human|representative)`)},
}

// ClassifyIntent maps a raw utterance to one intent. Pure function.
func ClassifyIntent(message string) Intent {
	for _, entry := range intentPatterns {
		if entry.pattern.MatchString(message) {
			return entry.intent
		}
	}
	return IntentGeneral
}
