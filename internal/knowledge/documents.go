// Package knowledge loads and holds the immutable reference data the
// conversation engine answers from: company identity, the service catalog,
// the solar pricing table, and the published business hours. Documents are
// read once at startup and never mutated afterwards, so a single Store can
// be shared read-only across concurrent conversations.
package knowledge

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Company identifies the business the assistant speaks for.
type Company struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// QuoteField is one field a service needs collected before a booking
// can be finalized. Prompt labels are asked verbatim, one per turn, in
// catalog order.
type QuoteField struct {
	Field    string   `json:"field"`
	Required bool     `json:"required"`
	Label    string   `json:"label"`
	Options  []string `json:"options,omitempty"`
}

// Service is one catalog entry.
type Service struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription string       `json:"short_description"`
	Keywords         []string     `json:"keywords,omitempty"`
	RequiredForQuote []QuoteField `json:"required_for_quote"`
}

// RequiredFields returns the required quote fields in declared order.
func (s *Service) RequiredFields() []QuoteField {
	fields := make([]QuoteField, 0, len(s.RequiredForQuote))
	for _, f := range s.RequiredForQuote {
		if f.Required {
			fields = append(fields, f)
		}
	}
	return fields
}

// PricingTier is one row of a tiered pricing document. A row flagged
// manual_quote, or missing job_total_usd, has no quotable price.
type PricingTier struct {
	Min         int      `json:"min"`
	Max         int      `json:"max"`
	JobTotalUSD *float64 `json:"job_total_usd"`
	ManualQuote bool     `json:"manual_quote"`
}

// PricingTable is the authoritative panel-count to price mapping. It is
// populated from either document shape: a flat {"30": 283.5} map or a
// {"tiers": [...]} array. Lookup is exact-key only in both shapes.
type PricingTable struct {
	Flat  map[int]float64
	Tiers []PricingTier
}

// UnmarshalJSON accepts both pricing document shapes.
func (t *PricingTable) UnmarshalJSON(data []byte) error {
	var tiered struct {
		Tiers []PricingTier `json:"tiers"`
	}
	if err := json.Unmarshal(data, &tiered); err == nil && tiered.Tiers != nil {
		t.Tiers = tiered.Tiers
		return nil
	}

	var flat map[string]json.Number
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("knowledge: pricing document is neither a flat map nor tiered: %w", err)
	}

	t.Flat = make(map[int]float64, len(flat))
	for key, raw := range flat {
		if key == "tiers" {
			continue
		}
		count, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("knowledge: pricing key %q is not a panel count", key)
		}
		price, err := raw.Float64()
		if err != nil {
			return fmt.Errorf("knowledge: pricing value for %q is not a number", key)
		}
		t.Flat[count] = price
	}
	return nil
}

// Empty reports whether the table has no rows at all.
func (t *PricingTable) Empty() bool {
	return len(t.Flat) == 0 && len(t.Tiers) == 0
}

// DayHours is the published open/close window for one day, 24-hour
// zero-padded HH:MM strings.
type DayHours struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Schedule is the ordered business-hours schedule.
type Schedule struct {
	Entries []DayHours `json:"schedule"`
}

// ForDay returns the schedule entry for a day name ("Monday".."Sunday"),
// or nil when the business is closed that day.
func (s *Schedule) ForDay(day string) *DayHours {
	for i := range s.Entries {
		if strings.EqualFold(s.Entries[i].Day, day) {
			return &s.Entries[i]
		}
	}
	return nil
}
