package conversation

import (
	"fmt"
	"math"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/knowledge"
)

// Quote is a successful price resolution.
type Quote struct {
	TotalUSD      float64
	PricingSource string
}

// ResolvePrice looks up an exact panel count in the pricing table. Either
// the flat-table key equals the count, or a tiered row has min == max ==
// count, carries a price, and is not flagged manual_quote. There is no
// interpolation and no per-panel math: a count the table does not name is
// a miss, and a miss is the expected trigger for escalation, not an
// error. ResolvePrice is a pure function of the table and the count.
func ResolvePrice(table *knowledge.PricingTable, source string, panelCount int) (Quote, bool) {
	if table == nil || panelCount <= 0 {
		return Quote{}, false
	}

	if total, ok := table.Flat[panelCount]; ok {
		return Quote{TotalUSD: total, PricingSource: source}, true
	}

	for _, tier := range table.Tiers {
		if tier.Min != panelCount || tier.Max != panelCount {
			continue
		}
		if tier.ManualQuote || tier.JobTotalUSD == nil {
			return Quote{}, false
		}
		return Quote{TotalUSD: *tier.JobTotalUSD, PricingSource: source}, true
	}

	return Quote{}, false
}

// FormatUSD renders a price the way quotes are shown to customers:
// whole-dollar amounts without cents, otherwise two decimal places.
func FormatUSD(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("$%d", int64(value))
	}
	return fmt.Sprintf("$%.2f", value)
}
