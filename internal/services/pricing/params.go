// Package pricing implements the purchase price derivation engine: reference
// price lookup, the per-commodity formula pipelines and the aggregator that
// assembles the full report.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

// Params is the immutable set of tunables the formulas run with. A Params
// value is built once (from config or DefaultParams) and passed into the
// calculator; nothing in the engine mutates it.
type Params struct {
	// VATRate is the import VAT divisor, e.g. 1.13 for 13%.
	VATRate decimal.Decimal
	// SeaLogisticsNGN is the sea-route cost per tonne in NGN, terminal to
	// cleared-in-China. Inland haulage is excluded.
	SeaLogisticsNGN decimal.Decimal
	// ColtanAirCostUSD is the all-in air-freight transaction cost per kg,
	// deducted from the oxide price before VAT division.
	ColtanAirCostUSD decimal.Decimal

	// Trade discounts applied after VAT division: quoted ore trades below
	// the refined index in the local market.
	SpodumeneDiscount  decimal.Decimal
	LepidoliteDiscount decimal.Decimal

	// Lepidolite is derived from the lithium carbonate quote.
	LepidoliteOreRatio      decimal.Decimal // tonnes of ore per tonne of carbonate
	LepidoliteProcessingCNY decimal.Decimal // processing cost, CNY per tonne of carbonate

	// ClampNegativeFOB lists commodities whose result is reported as
	// missing data whenever logistics cost exceeds revenue. Historically
	// only monazite clamps; the flag makes that policy explicit and
	// reviewable per commodity.
	ClampNegativeFOB map[entity.Commodity]bool
}

// Base grades at which the reference quotes are defined.
var (
	monaziteBaseGrade   = decimal.NewFromInt(60)    // % TREO
	spodumeneBaseGrade  = decimal.NewFromInt(6)     // % Li2O
	lepidoliteBaseGrade = decimal.NewFromFloat(2.5) // % Li2O
)

// DefaultParams returns the production tunables.
func DefaultParams() Params {
	return Params{
		VATRate:                 decimal.NewFromFloat(1.13),
		SeaLogisticsNGN:         decimal.NewFromInt(80309),
		ColtanAirCostUSD:        decimal.NewFromInt(8),
		SpodumeneDiscount:       decimal.NewFromFloat(0.6),
		LepidoliteDiscount:      decimal.NewFromFloat(0.3),
		LepidoliteOreRatio:      decimal.NewFromInt(20),
		LepidoliteProcessingCNY: decimal.NewFromInt(45000),
		ClampNegativeFOB: map[entity.Commodity]bool{
			entity.CommodityMonazite: true,
		},
	}
}

func (p Params) clampsFOB(c entity.Commodity) bool {
	return p.ClampNegativeFOB[c]
}

// ReportParams converts to the audit block embedded in every report.
func (p Params) ReportParams() entity.ReportParams {
	return entity.ReportParams{
		VATRate:             p.VATRate,
		LogisticsCostSeaNGN: p.SeaLogisticsNGN,
		ColtanAirCostUSD:    p.ColtanAirCostUSD,
		SpodumeneDiscount:   p.SpodumeneDiscount,
		LepidoliteDiscount:  p.LepidoliteDiscount,
	}
}
