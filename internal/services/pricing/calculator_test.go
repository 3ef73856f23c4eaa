package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

// testRates is the FX triple of the worked examples: USD/CNY 7.504 with the
// CNY/NGN leg pinned at 216, so USD/NGN derives to 1620.864.
var testRates = entity.NewResolvedRates(
	decimal.NewFromFloat(7.504),
	decimal.NewFromInt(216),
	entity.ProvenanceManualOverride,
)

const fullSnapshot = `{
	"date": "2025-12-01",
	"smm_prices": {
		"tin": {"price_avg": 30000, "unit": "USD/mt"},
		"tantalum_oxide": {"price_avg": 65, "unit": "USD/kg"},
		"monazite_concentrate": {"price_avg": 1000, "unit": "USD/mt"},
		"titanium_concentrate": {"price_avg": 2100, "unit": "CNY/mt"},
		"zircon_sand": {"price_avg": 1280, "unit": "USD/mt"},
		"spodumene": {"price_avg": 900, "unit": "USD/mt"},
		"lithium_carbonate": {"price_avg": 10000, "unit": "USD/mt"},
		"lead": {"price_avg": 2000, "unit": "USD/mt"},
		"zinc": {"price_avg": 2500, "unit": "USD/mt"}
	}
}`

func newTestCalculator(t *testing.T, rawSnapshot string) *Calculator {
	t.Helper()
	snap, err := entity.ParseSnapshot(rawSnapshot)
	require.NoError(t, err)
	return NewCalculator(NewPriceBook(snap, zap.NewNop()), testRates, DefaultParams())
}

func grade(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestTinOre_WorkedExample(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	// 30000 * 0.70 * 1620.864 = 34,038,144 NGN/mt in China;
	// minus 80,309 logistics, divided by 1.13 VAT and by 1000 kg/mt.
	price, ok := calc.TinOre(grade(70))
	require.True(t, ok)
	assert.Equal(t, "30051", price.Round(0).String())
}

func TestTinOre_MonotonicInGrade(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	prev := decimal.Decimal{}
	for i, g := range []float64{60, 65, 70, 75} {
		price, ok := calc.TinOre(grade(g))
		require.True(t, ok)
		if i > 0 {
			assert.True(t, price.GreaterThan(prev), "price at %v%% must exceed price at lower grade", g)
		}
		prev = price
	}
}

func TestTinOre_MissingReference(t *testing.T) {
	calc := newTestCalculator(t, `{"smm_prices": {}}`)

	_, ok := calc.TinOre(grade(70))
	assert.False(t, ok)
}

func TestColtan_WorkedExample(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	// (65 - 8) / 1.13 / 100 * 1620.864 = 817.604 NGN per grade point;
	// times 30 points.
	price, ok := calc.Coltan(grade(30))
	require.True(t, ok)
	assert.Equal(t, "24528", price.Round(0).String())
}

func TestColtan_LinearPerGradePoint(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	at20, ok := calc.Coltan(grade(20))
	require.True(t, ok)
	at35, ok := calc.Coltan(grade(35))
	require.True(t, ok)

	// per-grade-point pricing: both grades share the same unit price
	assert.True(t, at35.Div(grade(35)).Round(6).Equal(at20.Div(grade(20)).Round(6)))
}

func TestMonazite_ScalesAgainstBaseGrade(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	// at the 60% base grade the quote passes through unscaled:
	// 1000 * 1620.864 - 80,309, / 1.13, / 1000
	price, ok := calc.Monazite(grade(60))
	require.True(t, ok)
	assert.Equal(t, "1363", price.Round(0).String())

	price, ok = calc.Monazite(grade(30))
	require.True(t, ok)
	assert.Equal(t, "646", price.Round(0).String())
}

func TestMonazite_ClampsNegativeFOB(t *testing.T) {
	calc := newTestCalculator(t, `{"smm_prices": {"monazite_concentrate": {"price_avg": 40, "unit": "USD/mt"}}}`)

	// 40 * 1620.864 * 0.5 = 32,417 NGN/mt does not cover 80,309 logistics
	_, ok := calc.Monazite(grade(30))
	assert.False(t, ok)
}

func TestMonazite_FallbackKey(t *testing.T) {
	calc := newTestCalculator(t, `{"smm_prices": {"monazite": {"price_avg": 1000}}}`)

	price, ok := calc.Monazite(grade(60))
	require.True(t, ok)
	assert.Equal(t, "1363", price.Round(0).String())
}

func TestTitanium_UsesOnlyCnyLeg(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	// 2100 CNY * 216 = 453,600 NGN; minus logistics, divided by VAT
	price, ok := calc.Titanium()
	require.True(t, ok)
	assert.Equal(t, "330345", price.Round(0).String())
}

func TestZircon_FlatQuote(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	// 1280 * 1620.864 = 2,074,706 NGN; minus logistics, divided by VAT
	price, ok := calc.Zircon()
	require.True(t, ok)
	assert.Equal(t, "1764953", price.Round(0).String())
}

func TestSpodumene_AppliesDiscountAfterVAT(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	price, ok := calc.Spodumene(grade(6))
	require.True(t, ok)
	assert.Equal(t, "731930", price.Round(0).String())

	// a lower grade prices strictly below the base grade
	lower, ok := calc.Spodumene(grade(3))
	require.True(t, ok)
	assert.True(t, lower.LessThan(price))
}

func TestLepidolite_DerivedFromCarbonate(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	// carbonate 10000 USD -> 75,040 CNY, minus 45,000 processing, / 20 ore
	// ratio = 1502 CNY/mt ore at base grade; * 216, minus logistics, / VAT,
	// * 0.3 discount
	price, ok := calc.Lepidolite(grade(2.5))
	require.True(t, ok)
	assert.Equal(t, "64811", price.Round(0).String())
}

func TestLepidolite_HigherCarbonateQuoteRaisesOrePrice(t *testing.T) {
	low := newTestCalculator(t, `{"smm_prices": {"lithium_carbonate": {"price_avg": 10000}}}`)
	high := newTestCalculator(t, `{"smm_prices": {"lithium_carbonate": {"price_avg": 20000}}}`)

	lowPrice, ok := low.Lepidolite(grade(2.5))
	require.True(t, ok)
	highPrice, ok := high.Lepidolite(grade(2.5))
	require.True(t, ok)
	assert.True(t, highPrice.GreaterThan(lowPrice))
}

func TestLeadAndZinc_PerTonnePipelines(t *testing.T) {
	calc := newTestCalculator(t, fullSnapshot)

	lead, ok := calc.LeadOre(grade(50))
	require.True(t, ok)
	assert.Equal(t, "1363324", lead.Round(0).String())

	zinc, ok := calc.ZincOre(grade(50))
	require.True(t, ok)
	assert.Equal(t, "1722805", zinc.Round(0).String())
}

func TestSeaRoute_NegativeFOBPassesThroughWithoutClamp(t *testing.T) {
	// tin does not clamp, so a quote too low to cover logistics yields a
	// negative ceiling rather than missing data
	calc := newTestCalculator(t, `{"smm_prices": {"tin": {"price_avg": 10, "unit": "USD/mt"}}}`)

	price, ok := calc.TinOre(grade(70))
	require.True(t, ok)
	assert.True(t, price.IsNegative())
}
