// Package conversation implements the deterministic engine behind the
// SunSweeper assistant: intent classification, slot extraction, exact-key
// pricing, business-hours checks, escalation, and the per-turn state
// machine that sequences them. The engine is a pure function of
// (message, prior state, knowledge); it keeps no session memory of its
// own, so callers persist and resend state each turn.
package conversation

import (
	"time"
)

// Outcome classifies a conversation turn.
type Outcome string

const (
	OutcomeBooked   Outcome = "booked_job"
	OutcomeFollowup Outcome = "needs_human_followup"
	OutcomeGeneral  Outcome = "general_lead"
)

// Slot keys used by the extractors and the booking flow.
const (
	SlotClientName     = "client_name"
	SlotAddress        = "address"
	SlotPanelCount     = "panel_count"
	SlotLocation       = "location"
	SlotPhone          = "phone"
	SlotEmail          = "email"
	SlotRequestedDate  = "requested_date"
	SlotTime           = "time"
	SlotContactMethod  = "contact_method"
	SlotCallbackWindow = "callback_window"
)

// requiredContactFields must both be collected before an escalated
// conversation stops prompting.
var requiredContactFields = []string{SlotContactMethod, SlotCallbackWindow}

// BookingRecord is the finalized snapshot of a confirmed booking. It is
// only ever constructed once every required field is present, the price
// lookup succeeded, and the requested time is within business hours.
type BookingRecord struct {
	ServiceID     string    `json:"service_id"`
	ClientName    string    `json:"client_name"`
	Address       string    `json:"address"`
	PanelCount    int       `json:"panel_count"`
	Location      string    `json:"location"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	RequestedDate string    `json:"requested_date"`
	Time          string    `json:"time"`
	TotalUSD      float64   `json:"total_usd"`
	PricingSource string    `json:"pricing_source"`
	CreatedAt     time.Time `json:"created_at"`
}

// State is the unit of memory passed in and returned each turn. The
// caller owns it between turns; the engine never retains a reference.
type State struct {
	Intent             Intent            `json:"intent,omitempty"`
	ActiveIntents      []Intent          `json:"active_intents,omitempty"`
	ServiceID          string            `json:"service_id,omitempty"`
	Slots              map[string]string `json:"slots,omitempty"`
	Outcome            Outcome           `json:"outcome,omitempty"`
	NeedsHumanFollowup bool              `json:"needs_human_followup,omitempty"`
	EscalationReason   EscalationReason  `json:"escalation_reason,omitempty"`
	Booking            *BookingRecord    `json:"booking,omitempty"`

	// LastPromptedField remembers which required field the previous
	// reply asked for, so a refusal on the next turn escalates instead
	// of re-prompting forever.
	LastPromptedField string `json:"last_prompted_field,omitempty"`
}

// NewState returns the empty state for the first turn of a conversation.
func NewState() State {
	return State{Outcome: OutcomeGeneral, Slots: map[string]string{}}
}

// clone returns a deep copy so each turn derives a new value instead of
// mutating the caller's state.
func (s State) clone() State {
	next := s
	next.Slots = make(map[string]string, len(s.Slots))
	for k, v := range s.Slots {
		next.Slots[k] = v
	}
	next.ActiveIntents = append([]Intent(nil), s.ActiveIntents...)
	if s.Booking != nil {
		booking := *s.Booking
		next.Booking = &booking
	}
	return next
}

// addIntent accumulates an intent into the active set, order-irrelevant,
// no duplicates.
func (s *State) addIntent(intent Intent) {
	for _, seen := range s.ActiveIntents {
		if seen == intent {
			return
		}
	}
	s.ActiveIntents = append(s.ActiveIntents, intent)
}

// slot returns the value of a slot, or "" when unset.
func (s *State) slot(key string) string {
	if s.Slots == nil {
		return ""
	}
	return s.Slots[key]
}

// setSlot fills a slot only when it is still empty: the first value wins
// for the life of the conversation, so a later ambiguous utterance cannot
// corrupt an already-confirmed field.
func (s *State) setSlot(key, value string) {
	if value == "" || s.Slots[key] != "" {
		return
	}
	s.Slots[key] = value
}

// clearSlot removes a slot so it can be re-prompted and re-filled. Used
// when a collected value turns out to be unusable (time outside hours,
// date with no resolvable weekday).
func (s *State) clearSlot(key string) {
	delete(s.Slots, key)
}

// missingContactFields lists escalation contact fields still unset, in
// collection order.
func (s *State) missingContactFields() []string {
	var missing []string
	for _, field := range requiredContactFields {
		if s.slot(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// intentStrings renders the active intent set for outcome records.
func (s *State) intentStrings() []string {
	out := make([]string, len(s.ActiveIntents))
	for i, intent := range s.ActiveIntents {
		out[i] = string(intent)
	}
	return out
}
