package conversation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ---------- package-level compiled regexes ----------

var (
	panelCountRE   = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*panels?\b`)
	phoneRE        = regexp.MustCompile(`(\+?1[\s-]?)?(\(?\d{3}\)?[\s-]?\d{3}[\s-]?\d{4})`)
	nameRE         = regexp.MustCompile(`(?i)(?:my name is|this is|i am|i'm)\s+([a-z]+(?:\s+[a-z]+){0,3})`)
	addressRE      = regexp.MustCompile(`(?i)\d{1,6}\s+[a-z0-9]+(?:\s+[a-z0-9]+)*\s+(street|st|avenue|ave|road|rd|drive|dr|lane|ln|boulevard|blvd|court|ct|way|circle|cir|place|pl)\b`)
	emailRE        = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
	slashDateRE    = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\b`)
	longDateRE     = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:,\s*\d{4})?\b`)
	meridiemTimeRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	clockTimeRE    = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	refusalRE      = regexp.MustCompile(`(?i)(don't know|not sure|no idea|can't provide|prefer not)`)
	windowRE       = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|today|tomorrow)\b`)
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var apostropheNormalizer = strings.NewReplacer(
	"’", "'", // right single quote
	"‘", "'", // left single quote
)

// Extractor pulls one field's value out of free text. Extractors are
// pure, independent, and never fail loudly: a miss is ("", false).
type Extractor func(message string) (string, bool)

// bookingExtractors is the ordered registry of field extractors the
// engine folds into the slot map each turn.
var bookingExtractors = []struct {
	field   string
	extract Extractor
}{
	{SlotClientName, ExtractName},
	{SlotPhone, ExtractPhone},
	{SlotAddress, ExtractAddress},
	{SlotEmail, ExtractEmail},
	{SlotRequestedDate, ExtractDate},
	{SlotTime, ExtractTime},
	{SlotPanelCount, ExtractPanelCount},
	{SlotLocation, ExtractLocation},
}

// ExtractPanelCount finds the first number immediately preceding the
// word "panel(s)". The capture includes any decimal part so "12.30
// panels" is seen whole and rejected rather than read as 30. Zero,
// negative, and fractional counts are treated as a miss.
func ExtractPanelCount(message string) (string, bool) {
	match := panelCountRE.FindStringSubmatch(message)
	if match == nil {
		return "", false
	}
	count, err := strconv.Atoi(match[1])
	if err != nil || count <= 0 {
		return "", false
	}
	return strconv.Itoa(count), true
}

// ExtractPhone matches a North-American phone number with optional
// country code.
func ExtractPhone(message string) (string, bool) {
	match := phoneRE.FindString(message)
	if match == "" {
		return "", false
	}
	return strings.TrimSpace(match), true
}

// ExtractName matches explicit self-introductions ("my name is ...",
// "this is ...", "I am ...").
func ExtractName(message string) (string, bool) {
	match := nameRE.FindStringSubmatch(apostropheNormalizer.Replace(message))
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// ExtractAddress matches a house number followed by a street-type token.
func ExtractAddress(message string) (string, bool) {
	match := addressRE.FindString(message)
	if match == "" {
		return "", false
	}
	return strings.TrimSpace(match), true
}

// ExtractEmail matches a standard local@domain address.
func ExtractEmail(message string) (string, bool) {
	match := emailRE.FindString(message)
	if match == "" {
		return "", false
	}
	return strings.TrimSpace(match), true
}

// ExtractDate tries a slash date, then a long-month-name date, then a
// bare weekday name, in that priority.
func ExtractDate(message string) (string, bool) {
	if match := slashDateRE.FindStringSubmatch(message); match != nil {
		return match[1], true
	}
	if match := longDateRE.FindString(message); match != "" {
		return match, true
	}
	normalized := strings.ToLower(message)
	for _, day := range weekdays {
		if strings.Contains(normalized, day) {
			return day, true
		}
	}
	return "", false
}

// ExtractTime matches H[:MM]am/pm or 24-hour HH:MM and normalizes to
// zero-padded 24-hour HH:MM. A bare number without a colon or meridiem
// is not a time.
func ExtractTime(message string) (string, bool) {
	if match := meridiemTimeRE.FindStringSubmatch(message); match != nil {
		hours, _ := strconv.Atoi(match[1])
		if hours >= 1 && hours <= 12 {
			minutes := 0
			if match[2] != "" {
				minutes, _ = strconv.Atoi(match[2])
			}
			meridiem := strings.ToLower(match[3])
			if meridiem == "pm" && hours < 12 {
				hours += 12
			}
			if meridiem == "am" && hours == 12 {
				hours = 0
			}
			return fmt.Sprintf("%02d:%02d", hours, minutes), true
		}
	}
	if match := clockTimeRE.FindStringSubmatch(message); match != nil {
		hours, _ := strconv.Atoi(match[1])
		minutes, _ := strconv.Atoi(match[2])
		return fmt.Sprintf("%02d:%02d", hours, minutes), true
	}
	return "", false
}

// ExtractLocation normalizes mount-location mentions.
func ExtractLocation(message string) (string, bool) {
	normalized := strings.ToLower(message)
	switch {
	case strings.Contains(normalized, "ground"):
		return "ground_mount", true
	case strings.Contains(normalized, "second"):
		return "second_story_roof", true
	case strings.Contains(normalized, "first"):
		return "first_story_roof", true
	case strings.Contains(normalized, "roof"):
		return "roof", true
	}
	return "", false
}

// IsRefusal reports whether the message declines to provide information.
func IsRefusal(message string) bool {
	return refusalRE.MatchString(apostropheNormalizer.Replace(message))
}

// updateBookingSlots folds newly extracted booking fields into the slot
// map. Previously filled fields are never overwritten.
func updateBookingSlots(message string, state *State) {
	for _, entry := range bookingExtractors {
		if value, ok := entry.extract(message); ok {
			state.setSlot(entry.field, value)
		}
	}
}

var (
	bareIntegerRE = regexp.MustCompile(`^\s*(\d+)\s*$`)
	bareNameRE    = regexp.MustCompile(`^[\p{L}][\p{L}'-]*(?:\s+[\p{L}][\p{L}'-]*){0,3}$`)
)

// applyDirectReply credits a short answer to the field the assistant
// just asked for, covering replies the standalone extractors cannot
// claim, like a bare "30" after the panel-count question or a bare
// "Sarah Jones" after the name question.
func applyDirectReply(field, message string, state *State) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" || IsRefusal(trimmed) {
		return
	}
	switch field {
	case SlotPanelCount:
		if match := bareIntegerRE.FindStringSubmatch(trimmed); match != nil {
			if count, err := strconv.Atoi(match[1]); err == nil && count > 0 {
				state.setSlot(SlotPanelCount, strconv.Itoa(count))
			}
		}
	case SlotClientName:
		if bareNameRE.MatchString(trimmed) {
			state.setSlot(SlotClientName, trimmed)
		}
	case SlotAddress:
		state.setSlot(SlotAddress, trimmed)
	case SlotLocation:
		if value, ok := ExtractLocation(trimmed); ok {
			state.setSlot(SlotLocation, value)
		}
	case SlotCallbackWindow:
		state.setSlot(SlotCallbackWindow, trimmed)
	}
}

// updateContactSlots fills escalation contact preferences: the contact
// method keyword and, once a method is known to be wanted, the callback
// window phrase.
func updateContactSlots(message string, state *State) {
	normalized := strings.ToLower(message)

	if state.slot(SlotContactMethod) == "" {
		if strings.Contains(normalized, "text") {
			state.setSlot(SlotContactMethod, "text")
		}
		if strings.Contains(normalized, "call") || strings.Contains(normalized, "phone") {
			state.Slots[SlotContactMethod] = "call"
		}
	}

	if state.slot(SlotCallbackWindow) == "" && windowRE.MatchString(normalized) {
		state.setSlot(SlotCallbackWindow, strings.TrimSpace(message))
	}
}
