package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Calculator derives zero-margin purchase ceilings from a resolved price
// book and FX triple. Every formula is a pure function of its inputs: no
// formula mutates the book, the rates or the params. The boolean result is
// false when the required reference price is unavailable; formulas never
// fail for data-quality reasons.
type Calculator struct {
	book   *PriceBook
	rates  entity.ResolvedRates
	params Params
}

// NewCalculator wires a calculator over one snapshot's price book.
func NewCalculator(book *PriceBook, rates entity.ResolvedRates, params Params) *Calculator {
	return &Calculator{book: book, rates: rates, params: params}
}

// seaRoute runs the shared tail of the sea-freight pipelines: deduct
// logistics from the China-side revenue, then divide out VAT. When clamp is
// set, a non-positive FOB value (grade too low to cover logistics) is
// reported as missing data instead of a negative price.
func (c *Calculator) seaRoute(chinaPriceNGN decimal.Decimal, clamp bool) (decimal.Decimal, bool) {
	fob := chinaPriceNGN.Sub(c.params.SeaLogisticsNGN)
	if clamp && fob.Sign() <= 0 {
		return decimal.Decimal{}, false
	}
	return fob.Div(c.params.VATRate), true
}

// TinOre prices cassiterite in NGN/kg. The refined-metal quote is scaled by
// the assay grade as a direct fraction (no base-grade ratio), converted to
// NGN, run through the sea pipeline and converted from tonnes to kilograms.
func (c *Calculator) TinOre(gradePercent decimal.Decimal) (decimal.Decimal, bool) {
	metalUSD, ok := c.book.Lookup("tin")
	if !ok {
		return decimal.Decimal{}, false
	}

	chinaNGN := metalUSD.Mul(gradePercent).Div(hundred).Mul(c.rates.UsdNgn)
	perTonne, ok := c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommodityTinOre))
	if !ok {
		return decimal.Decimal{}, false
	}
	return perTonne.Div(thousand), true
}

// LeadOre prices galena in NGN/mt; linear grade scaling like tin but
// reported per tonne.
func (c *Calculator) LeadOre(gradePercent decimal.Decimal) (decimal.Decimal, bool) {
	metalUSD, ok := c.book.Lookup("lead")
	if !ok {
		return decimal.Decimal{}, false
	}
	chinaNGN := metalUSD.Mul(gradePercent).Div(hundred).Mul(c.rates.UsdNgn)
	return c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommodityLeadOre))
}

// ZincOre prices sphalerite in NGN/mt, same pipeline as lead.
func (c *Calculator) ZincOre(gradePercent decimal.Decimal) (decimal.Decimal, bool) {
	metalUSD, ok := c.book.Lookup("zinc")
	if !ok {
		return decimal.Decimal{}, false
	}
	chinaNGN := metalUSD.Mul(gradePercent).Div(hundred).Mul(c.rates.UsdNgn)
	return c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommodityZincOre))
}

// Coltan prices tantalite in NGN/kg using per-grade-point pricing. Freight
// is air, folded into a fixed per-kg transaction cost deducted from the
// oxide quote before VAT division; no sea-logistics term applies.
func (c *Calculator) Coltan(gradePercent decimal.Decimal) (decimal.Decimal, bool) {
	oxideUSDKg, ok := c.book.Lookup("tantalum_oxide")
	if !ok {
		return decimal.Decimal{}, false
	}

	unitPerGradePoint := oxideUSDKg.
		Sub(c.params.ColtanAirCostUSD).
		Div(c.params.VATRate).
		Div(hundred).
		Mul(c.rates.UsdNgn)
	return gradePercent.Mul(unitPerGradePoint), true
}

// Monazite prices rare-earth concentrate in NGN/kg, scaled against the 60%
// TREO base grade. Low grades may not cover logistics; the clamp policy
// (on by default for monazite) reports those as missing data.
func (c *Calculator) Monazite(gradePercent decimal.Decimal) (decimal.Decimal, bool) {
	refUSD, ok := c.book.Lookup("monazite_concentrate", "monazite")
	if !ok {
		return decimal.Decimal{}, false
	}

	chinaNGN := refUSD.Mul(c.rates.UsdNgn).Mul(gradePercent.Div(monaziteBaseGrade))
	perTonne, ok := c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommodityMonazite))
	if !ok {
		return decimal.Decimal{}, false
	}
	return perTonne.Div(thousand), true
}

// Titanium prices ilmenite concentrate in NGN/mt. The reference quote is
// already in CNY, so only the CNY/NGN leg applies; no grade axis.
func (c *Calculator) Titanium() (decimal.Decimal, bool) {
	refCNY, ok := c.book.Lookup("titanium_concentrate", "titanium", "titanium_nigeria")
	if !ok {
		return decimal.Decimal{}, false
	}
	chinaNGN := refCNY.Mul(c.rates.CnyNgn)
	return c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommodityTitanium))
}

// Zircon prices zircon sand in NGN/mt; flat USD quote, no grade axis.
func (c *Calculator) Zircon() (decimal.Decimal, bool) {
	refUSD, ok := c.book.Lookup("zircon_sand", "zircon")
	if !ok {
		return decimal.Decimal{}, false
	}
	chinaNGN := refUSD.Mul(c.rates.UsdNgn)
	return c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommodityZircon))
}

// Spodumene prices Li2O concentrate in NGN/mt against the 6% base grade,
// then applies the local-market trade discount after VAT division.
func (c *Calculator) Spodumene(gradePercent decimal.Decimal) (decimal.Decimal, bool) {
	refUSD, ok := c.book.Lookup("spodumene", "spodumene_concentrate")
	if !ok {
		return decimal.Decimal{}, false
	}

	chinaNGN := refUSD.Mul(c.rates.UsdNgn).Mul(gradePercent.Div(spodumeneBaseGrade))
	perTonne, ok := c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommoditySpodumene))
	if !ok {
		return decimal.Decimal{}, false
	}
	return perTonne.Mul(c.params.SpodumeneDiscount), true
}

// Lepidolite has no direct quote; its ore price is derived from the lithium
// carbonate reference. The carbonate quote is converted to CNY, the
// processing cost per tonne of carbonate deducted, divided by the
// ore-to-carbonate mass ratio and scaled by grade, producing an intermediate
// CNY ore price that then runs the usual sea pipeline plus discount.
func (c *Calculator) Lepidolite(gradePercent decimal.Decimal) (decimal.Decimal, bool) {
	carbonateUSD, ok := c.book.Lookup("lithium_carbonate")
	if !ok {
		return decimal.Decimal{}, false
	}

	carbonateCNY := carbonateUSD.Mul(c.rates.UsdCny)
	oreCNY := carbonateCNY.
		Sub(c.params.LepidoliteProcessingCNY).
		Div(c.params.LepidoliteOreRatio).
		Mul(gradePercent.Div(lepidoliteBaseGrade))

	chinaNGN := oreCNY.Mul(c.rates.CnyNgn)
	perTonne, ok := c.seaRoute(chinaNGN, c.params.clampsFOB(entity.CommodityLepidolite))
	if !ok {
		return decimal.Decimal{}, false
	}
	return perTonne.Mul(c.params.LepidoliteDiscount), true
}
