package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/knowledge"
)

func floatPtr(v float64) *float64 { return &v }

func TestResolvePriceFlatTable(t *testing.T) {
	table := &knowledge.PricingTable{
		Flat: map[int]float64{10: 120, 30: 283.5, 45: 389.25},
	}

	quote, ok := ResolvePrice(table, "pricing.json", 30)
	require.True(t, ok)
	assert.Equal(t, 283.5, quote.TotalUSD)
	assert.Equal(t, "pricing.json", quote.PricingSource)

	_, ok = ResolvePrice(table, "pricing.json", 31)
	assert.False(t, ok, "counts not in the table must miss, never interpolate")

	_, ok = ResolvePrice(table, "pricing.json", 0)
	assert.False(t, ok)

	_, ok = ResolvePrice(nil, "pricing.json", 30)
	assert.False(t, ok)
}

func TestResolvePriceTiers(t *testing.T) {
	table := &knowledge.PricingTable{
		Tiers: []knowledge.PricingTier{
			{Min: 20, Max: 20, JobTotalUSD: floatPtr(210)},
			{Min: 50, Max: 50, ManualQuote: true},
			{Min: 60, Max: 80, JobTotalUSD: floatPtr(600)},
		},
	}

	quote, ok := ResolvePrice(table, "pricing.json", 20)
	require.True(t, ok)
	assert.Equal(t, 210.0, quote.TotalUSD)

	_, ok = ResolvePrice(table, "pricing.json", 50)
	assert.False(t, ok, "manual_quote tiers never produce a price")

	_, ok = ResolvePrice(table, "pricing.json", 70)
	assert.False(t, ok, "ranged tiers are not exact matches")
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$120", FormatUSD(120))
	assert.Equal(t, "$283.50", FormatUSD(283.5))
	assert.Equal(t, "$389.25", FormatUSD(389.25))
}
