package conversation

import "testing"

func TestExtractPanelCount(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"I have 30 panels", "30", true},
		{"clean 1 panel", "1", true},
		{"45 panels on the roof", "45", true},
		{"0 panels", "", false},
		{"How much to clean 12.30 panels?", "", false},
		{"2.5 panels", "", false},
		{"a few panels", "", false},
		{"30 windows", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractPanelCount(tt.message)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractPanelCount(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"reach me at 555-123-4567", "555-123-4567", true},
		{"call (555) 123 4567", "(555) 123 4567", true},
		{"+1 555-123-4567 works", "+1 555-123-4567", true},
		{"no number here", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractPhone(tt.message)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractPhone(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"my name is Sarah Jones", "Sarah Jones", true},
		{"This is Bob", "Bob", true},
		{"I'm Maria del Carmen Ruiz", "Maria del Carmen Ruiz", true},
		{"I’m Dana", "Dana", true},
		{"hello", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractName(tt.message)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractName(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		message string
		ok      bool
	}{
		{"I live at 123 Main Street", true},
		{"4500 Sunset Blvd please", true},
		{"12 Oak Ln", true},
		{"somewhere on the east side", false},
	}
	for _, tt := range tests {
		_, ok := ExtractAddress(tt.message)
		if ok != tt.ok {
			t.Errorf("ExtractAddress(%q) ok = %v, want %v", tt.message, ok, tt.ok)
		}
	}
}

func TestExtractEmail(t *testing.T) {
	got, ok := ExtractEmail("send it to sarah@example.com thanks")
	if !ok || got != "sarah@example.com" {
		t.Errorf("got (%q, %v)", got, ok)
	}
	if _, ok := ExtractEmail("no email"); ok {
		t.Error("expected miss")
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"how about 3/14", "3/14", true},
		{"book me for 3/14/2026", "3/14/2026", true},
		{"March 14 works", "March 14", true},
		{"monday would be great", "monday", true},
		{"sometime soon", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractDate(tt.message)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractDate(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

// Slash dates take priority over weekday names, weekday names are the
// last resort.
func TestExtractDatePriority(t *testing.T) {
	got, _ := ExtractDate("monday 3/14 or March 20")
	if got != "3/14" {
		t.Errorf("got %q, want slash date first", got)
	}
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"at 10am", "10:00", true},
		{"around 2:30pm", "14:30", true},
		{"12am works", "00:00", true},
		{"12pm works", "12:00", true},
		{"23:00 tonight", "23:00", true},
		{"9:15 sharp", "09:15", true},
		{"45 panels", "", false}, // bare numbers are not times
		{"no time", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractTime(tt.message)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractTime(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"they're ground mounted", "ground_mount", true},
		{"second story roof", "second_story_roof", true},
		{"on the first floor roof", "first_story_roof", true},
		{"up on the roof", "roof", true},
		{"not sure where", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractLocation(tt.message)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractLocation(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsRefusal(t *testing.T) {
	positives := []string{
		"I don't know",
		"I don’t know",
		"not sure",
		"no idea",
		"I can't provide that",
		"I'd prefer not to say",
	}
	for _, msg := range positives {
		if !IsRefusal(msg) {
			t.Errorf("expected refusal for %q", msg)
		}
	}
	if IsRefusal("30 panels") {
		t.Error("expected no refusal")
	}
}

func TestUpdateBookingSlotsFirstValueWins(t *testing.T) {
	state := NewState()
	updateBookingSlots("I have 30 panels", &state)
	updateBookingSlots("actually 50 panels", &state)

	if got := state.slot(SlotPanelCount); got != "30" {
		t.Errorf("panel_count = %q, want first value 30", got)
	}
}

func TestUpdateContactSlots(t *testing.T) {
	state := NewState()
	updateContactSlots("text me", &state)
	if got := state.slot(SlotContactMethod); got != "text" {
		t.Errorf("contact_method = %q, want text", got)
	}

	// Filled method is kept on later turns.
	updateContactSlots("or call, whatever", &state)
	if got := state.slot(SlotContactMethod); got != "text" {
		t.Errorf("contact_method = %q, want text retained", got)
	}

	updateContactSlots("tomorrow morning works", &state)
	if got := state.slot(SlotCallbackWindow); got != "tomorrow morning works" {
		t.Errorf("callback_window = %q", got)
	}
}

func TestUpdateContactSlotsCallBeatsTextInOneTurn(t *testing.T) {
	state := NewState()
	updateContactSlots("text or call, either is fine", &state)
	if got := state.slot(SlotContactMethod); got != "call" {
		t.Errorf("contact_method = %q, want call", got)
	}
}

func TestApplyDirectReply(t *testing.T) {
	state := NewState()
	applyDirectReply(SlotPanelCount, "30", &state)
	if got := state.slot(SlotPanelCount); got != "30" {
		t.Errorf("panel_count = %q, want 30", got)
	}

	state = NewState()
	applyDirectReply(SlotClientName, "Sarah Jones", &state)
	if got := state.slot(SlotClientName); got != "Sarah Jones" {
		t.Errorf("client_name = %q", got)
	}

	state = NewState()
	applyDirectReply(SlotClientName, "I don't know", &state)
	if got := state.slot(SlotClientName); got != "" {
		t.Errorf("refusal should not fill a slot, got %q", got)
	}

	state = NewState()
	applyDirectReply(SlotPanelCount, "a lot", &state)
	if got := state.slot(SlotPanelCount); got != "" {
		t.Errorf("non-integer should not fill panel_count, got %q", got)
	}
}
