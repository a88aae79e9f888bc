package knowledge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyDir(t *testing.T, src, dst string) {
	t.Helper()
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(src, entry.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, entry.Name()), data, 0o644))
	}
}

func TestLoadValidDirectory(t *testing.T) {
	store, err := Load(filepath.Join("testdata", "valid"))
	require.NoError(t, err)

	assert.Equal(t, "SunSweeper", store.Company.Name)
	require.Len(t, store.Services, 2)
	assert.Equal(t, "solar_panel_cleaning", store.Services[0].ID)
	assert.Len(t, store.Services[0].RequiredForQuote, 8)
	assert.Equal(t, 283.5, store.Pricing.Flat[30])
	assert.NotEmpty(t, store.PricingSource)

	monday := store.Hours.ForDay("Monday")
	require.NotNil(t, monday)
	assert.Equal(t, "08:00", monday.Open)
	assert.Equal(t, "19:30", monday.Close)
	assert.Nil(t, store.Hours.ForDay("Sunday"))
}

func TestLoadMissingDocumentFails(t *testing.T) {
	dir := t.TempDir()
	copyDir(t, filepath.Join("testdata", "valid"), dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "pricing.json")))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing.json")
}

func TestLoadRejectsInvalidHours(t *testing.T) {
	dir := t.TempDir()
	copyDir(t, filepath.Join("testdata", "valid"), dir)
	bad := `{"schedule": [{"day": "Funday", "open": "08:00", "close": "17:00"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hours.json"), []byte(bad), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hours.json")
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	copyDir(t, filepath.Join("testdata", "valid"), dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "services.json"), []byte("{oops"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestPricingTableTieredShape(t *testing.T) {
	dir := t.TempDir()
	copyDir(t, filepath.Join("testdata", "valid"), dir)
	copyDir(t, filepath.Join("testdata", "tiered"), dir)

	store, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, store.Pricing.Tiers, 5)
	assert.Nil(t, store.Pricing.Flat)
	assert.True(t, store.Pricing.Tiers[3].ManualQuote)
	assert.Nil(t, store.Pricing.Tiers[2].JobTotalUSD)
}

func TestPricingTableUnmarshalRejectsBadKey(t *testing.T) {
	var table PricingTable
	err := json.Unmarshal([]byte(`{"thirty": 283.5}`), &table)
	require.Error(t, err)
}

func TestResolveService(t *testing.T) {
	store, err := Load(filepath.Join("testdata", "valid"))
	require.NoError(t, err)

	tests := []struct {
		message string
		wantID  string
	}{
		{"how much to clean 30 panels", "solar_panel_cleaning"},
		{"do you do PV arrays?", "solar_panel_cleaning"},
		{"my gutters are clogged", "gutter_cleaning"},
		{"hello there", ""},
	}
	for _, tt := range tests {
		svc := store.ResolveService(tt.message)
		if tt.wantID == "" {
			assert.Nil(t, svc, tt.message)
			continue
		}
		require.NotNil(t, svc, tt.message)
		assert.Equal(t, tt.wantID, svc.ID)
	}
}

func TestServiceByID(t *testing.T) {
	store, err := Load(filepath.Join("testdata", "valid"))
	require.NoError(t, err)

	assert.NotNil(t, store.ServiceByID("solar_panel_cleaning"))
	assert.Nil(t, store.ServiceByID("window_washing"))
}

func TestRequiredFieldsKeepsOrder(t *testing.T) {
	svc := Service{
		RequiredForQuote: []QuoteField{
			{Field: "a", Required: true},
			{Field: "b", Required: false},
			{Field: "c", Required: true},
		},
	}
	fields := svc.RequiredFields()
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Field)
	assert.Equal(t, "c", fields[1].Field)
}
