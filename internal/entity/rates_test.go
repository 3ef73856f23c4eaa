package entity

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolvedRates_UsdNgnIsAlwaysTheProduct(t *testing.T) {
	rates := NewResolvedRates(decimal.NewFromFloat(7.504), decimal.NewFromInt(216), ProvenanceManualOverride)

	assert.True(t, rates.UsdNgn.Equal(decimal.NewFromFloat(1620.864)))
	assert.True(t, rates.UsdNgn.Equal(rates.CnyNgn.Mul(rates.UsdCny)))
	assert.Equal(t, ProvenanceManualOverride, rates.CnyNgnSource)
}

func TestResolvedRates_JSONRoundTrip(t *testing.T) {
	rates := NewResolvedRates(decimal.NewFromFloat(7.2), decimal.NewFromFloat(212.35), ProvenanceDerived)

	out, err := json.Marshal(rates)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"usd_ngn"`)
	assert.Contains(t, string(out), `"cny_ngn_source":"derived"`)

	var back ResolvedRates
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.UsdCny.Equal(rates.UsdCny))
	assert.True(t, back.CnyNgn.Equal(rates.CnyNgn))
	assert.True(t, back.UsdNgn.Equal(rates.UsdNgn))
	assert.Equal(t, rates.CnyNgnSource, back.CnyNgnSource)
}
