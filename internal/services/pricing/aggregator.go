package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

// gradeBand is one illustrative assay grade a commodity is quoted at.
type gradeBand struct {
	label   string
	percent decimal.Decimal
}

func band(label string, percent float64) gradeBand {
	return gradeBand{label: label, percent: decimal.NewFromFloat(percent)}
}

// commoditySpec fixes the grade bands and display metadata per commodity.
type commoditySpec struct {
	commodity entity.Commodity
	unit      string
	baseGrade string
	note      string
	bands     []gradeBand
	calc      func(c *Calculator, grade decimal.Decimal) (decimal.Decimal, bool)
}

// The nine commodities, in report order. Flat commodities carry a single
// band whose label exists purely for display.
var commoditySpecs = []commoditySpec{
	{
		commodity: entity.CommodityTinOre,
		unit:      "NGN/kg",
		baseGrade: "70%",
		bands:     []gradeBand{band("60%", 60), band("65%", 65), band("70%", 70), band("75%", 75)},
		calc:      func(c *Calculator, g decimal.Decimal) (decimal.Decimal, bool) { return c.TinOre(g) },
	},
	{
		commodity: entity.CommodityColtan,
		unit:      "NGN/kg",
		baseGrade: "30% Ta₂O₅",
		note:      "Air freight",
		bands:     []gradeBand{band("20%", 20), band("25%", 25), band("30%", 30), band("35%", 35)},
		calc:      func(c *Calculator, g decimal.Decimal) (decimal.Decimal, bool) { return c.Coltan(g) },
	},
	{
		commodity: entity.CommodityMonazite,
		unit:      "NGN/kg",
		baseGrade: "60% TREO",
		bands:     []gradeBand{band("30%", 30), band("40%", 40), band("45%", 45), band("50%", 50), band("60%", 60)},
		calc:      func(c *Calculator, g decimal.Decimal) (decimal.Decimal, bool) { return c.Monazite(g) },
	},
	{
		commodity: entity.CommodityTitanium,
		unit:      "NGN/ton",
		baseGrade: "≥50% TiO₂",
		bands:     []gradeBand{band("50%", 50)},
		calc:      func(c *Calculator, _ decimal.Decimal) (decimal.Decimal, bool) { return c.Titanium() },
	},
	{
		commodity: entity.CommodityZircon,
		unit:      "NGN/ton",
		baseGrade: "≥65% Zr(Hf)O₂",
		bands:     []gradeBand{band("65%", 65)},
		calc:      func(c *Calculator, _ decimal.Decimal) (decimal.Decimal, bool) { return c.Zircon() },
	},
	{
		commodity: entity.CommoditySpodumene,
		unit:      "NGN/ton",
		baseGrade: "6% Li₂O",
		bands:     []gradeBand{band("3%", 3), band("4%", 4), band("5%", 5), band("6%", 6)},
		calc:      func(c *Calculator, g decimal.Decimal) (decimal.Decimal, bool) { return c.Spodumene(g) },
	},
	{
		commodity: entity.CommodityLepidolite,
		unit:      "NGN/ton",
		baseGrade: "2.5% Li₂O",
		bands:     []gradeBand{band("2.0%", 2.0), band("2.5%", 2.5), band("3.0%", 3.0)},
		calc:      func(c *Calculator, g decimal.Decimal) (decimal.Decimal, bool) { return c.Lepidolite(g) },
	},
	{
		commodity: entity.CommodityLeadOre,
		unit:      "NGN/ton",
		baseGrade: "50% Pb",
		bands:     []gradeBand{band("40%", 40), band("50%", 50), band("60%", 60)},
		calc:      func(c *Calculator, g decimal.Decimal) (decimal.Decimal, bool) { return c.LeadOre(g) },
	},
	{
		commodity: entity.CommodityZincOre,
		unit:      "NGN/ton",
		baseGrade: "50% Zn",
		bands:     []gradeBand{band("40%", 40), band("50%", 50), band("60%", 60)},
		calc:      func(c *Calculator, g decimal.Decimal) (decimal.Decimal, bool) { return c.ZincOre(g) },
	},
}

// sourcePriceSpec names the reference quotes snapshotted for audit.
var sourcePriceSpecs = []struct {
	name      string
	key       string
	fallbacks []string
	unit      string
}{
	{name: "tin", key: "tin", unit: "USD/mt"},
	{name: "tantalum_oxide", key: "tantalum_oxide", unit: "USD/kg"},
	{name: "monazite", key: "monazite_concentrate", fallbacks: []string{"monazite"}, unit: "USD/mt"},
	{name: "titanium", key: "titanium_concentrate", fallbacks: []string{"titanium", "titanium_nigeria"}, unit: "CNY/mt"},
	{name: "zircon", key: "zircon_sand", fallbacks: []string{"zircon"}, unit: "USD/mt"},
	{name: "spodumene", key: "spodumene", fallbacks: []string{"spodumene_concentrate"}, unit: "USD/mt"},
	{name: "lithium_carbonate", key: "lithium_carbonate", unit: "USD/mt"},
	{name: "lead", key: "lead", unit: "USD/mt"},
	{name: "zinc", key: "zinc", unit: "USD/mt"},
}

// Aggregator orchestrates all strategies across their grade bands and
// assembles the complete purchase-price report.
type Aggregator struct {
	resolver rateResolver
	params   Params
	logger   *zap.Logger
	now      func() time.Time
}

type rateResolver interface {
	Resolve(raw map[string]entity.FlexRate) entity.ResolvedRates
}

// NewAggregator builds an aggregator with fixed params and an FX resolver.
func NewAggregator(resolver rateResolver, params Params, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{resolver: resolver, params: params, logger: logger, now: time.Now}
}

// ComputeAll derives the full report for one snapshot. The report is always
// complete: unavailable reference prices surface as missing grade entries,
// never as errors or partial output.
func (a *Aggregator) ComputeAll(snap *entity.PriceSnapshot) *entity.PurchaseReport {
	resolved := a.resolver.Resolve(snap.ExchangeRates)
	book := NewPriceBook(snap, a.logger)
	calc := NewCalculator(book, resolved, a.params)

	report := &entity.PurchaseReport{
		Date:            snap.Date,
		CalculationTime: a.now().Format("2006-01-02 15:04:05"),
		RunID:           uuid.NewString(),
		ExchangeRates:   resolved,
		Parameters:      a.params.ReportParams(),
		SourcePrices:    make(map[string]entity.SourcePrice, len(sourcePriceSpecs)),
	}

	for _, src := range sourcePriceSpecs {
		entry := entity.SourcePrice{Unit: src.unit}
		if price, ok := book.Lookup(src.key, src.fallbacks...); ok {
			entry.Price = &price
		}
		report.SourcePrices[src.name] = entry
	}

	for _, spec := range commoditySpecs {
		result := &entity.CommodityResult{
			Unit:      spec.unit,
			BaseGrade: spec.baseGrade,
			Note:      spec.note,
		}
		for _, b := range spec.bands {
			price, ok := spec.calc(calc, b.percent)
			if !ok {
				a.logger.Info("no usable reference price, reporting grade as missing",
					zap.String("commodity", string(spec.commodity)),
					zap.String("grade", b.label))
				result.SetGrade(b.label, entity.GradePrice{Missing: true})
				continue
			}
			result.SetGrade(b.label, entity.GradePrice{Value: price})
		}
		report.AddResult(spec.commodity, result)
	}

	return report
}
