package conversation

import (
	"strings"
	"time"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/knowledge"
)

// WithinHours checks a requested day/time pair against the published
// schedule. Days with no entry, or entries missing open/close bounds,
// are closed. Times compare lexicographically, which is valid for
// zero-padded 24-hour HH:MM strings.
func WithinHours(day, clock string, schedule *knowledge.Schedule) bool {
	if schedule == nil {
		return false
	}
	entry := schedule.ForDay(day)
	if entry == nil || entry.Open == "" || entry.Close == "" {
		return false
	}
	return clock >= entry.Open && clock <= entry.Close
}

// Date layouts accepted for deriving a weekday from a collected
// requested_date slot, tried in order.
var dateLayouts = []string{
	"1/2/2006",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
}

// weekdayFromDate maps a requested_date slot value to a day name. A bare
// weekday name passes through; slash and long-month dates are parsed
// (month/day without a year resolves against the current year).
func weekdayFromDate(date string, now time.Time) (string, bool) {
	trimmed := strings.TrimSpace(date)
	normalized := strings.ToLower(trimmed)
	for _, day := range weekdays {
		if normalized == day {
			return day, true
		}
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, canonicalDateInput(trimmed)); err == nil {
			return strings.ToLower(parsed.Weekday().String()), true
		}
	}

	// Month/day with no year: assume the current year.
	if parsed, err := time.Parse("1/2/2006", trimmed+"/"+now.Format("2006")); err == nil {
		return strings.ToLower(parsed.Weekday().String()), true
	}
	if parsed, err := time.Parse("January 2 2006", canonicalDateInput(trimmed)+" "+now.Format("2006")); err == nil {
		return strings.ToLower(parsed.Weekday().String()), true
	}

	return "", false
}

// canonicalDateInput title-cases the month so time.Parse accepts
// lowercased user input like "march 14".
func canonicalDateInput(date string) string {
	fields := strings.Fields(date)
	if len(fields) == 0 {
		return date
	}
	fields[0] = strings.ToUpper(fields[0][:1]) + strings.ToLower(fields[0][1:])
	return strings.Join(fields, " ")
}
