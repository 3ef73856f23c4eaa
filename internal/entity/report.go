package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Commodity identifies one priced ore family.
type Commodity string

const (
	CommodityTinOre     Commodity = "tin_ore"
	CommodityColtan     Commodity = "coltan"
	CommodityMonazite   Commodity = "monazite"
	CommodityTitanium   Commodity = "titanium"
	CommodityZircon     Commodity = "zircon"
	CommoditySpodumene  Commodity = "spodumene"
	CommodityLepidolite Commodity = "lepidolite"
	CommodityLeadOre    Commodity = "lead_ore"
	CommodityZincOre    Commodity = "zinc_ore"
)

// GradePrice is a derived price at one assay grade. Missing marks grades for
// which no usable reference price existed; a missing price marshals as 0 so
// the output document always has a complete grade table.
type GradePrice struct {
	Value   decimal.Decimal
	Missing bool
}

func (g GradePrice) MarshalJSON() ([]byte, error) {
	if g.Missing {
		return []byte("0"), nil
	}
	// presentation rounding only; intermediate math stays unrounded
	return []byte(g.Value.Round(0).String()), nil
}

func (g *GradePrice) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*g = GradePrice{Value: d, Missing: d.IsZero()}
	return nil
}

// CommodityResult is the per-ore block of the report: a unit label, the base
// grade of the reference quote and the derived ceiling per assay grade.
type CommodityResult struct {
	Unit        string                `json:"unit"`
	BaseGrade   string                `json:"base_grade"`
	Note        string                `json:"note,omitempty"`
	Grades      map[string]GradePrice `json:"grades"`
	gradeLabels []string
}

// SetGrade records one grade price keeping insertion order for rendering.
func (c *CommodityResult) SetGrade(label string, price GradePrice) {
	if c.Grades == nil {
		c.Grades = make(map[string]GradePrice)
	}
	if _, ok := c.Grades[label]; !ok {
		c.gradeLabels = append(c.gradeLabels, label)
	}
	c.Grades[label] = price
}

// GradeLabels returns the grade labels in the order they were computed.
func (c *CommodityResult) GradeLabels() []string {
	if len(c.gradeLabels) > 0 {
		return c.gradeLabels
	}
	labels := make([]string, 0, len(c.Grades))
	for label := range c.Grades {
		labels = append(labels, label)
	}
	return labels
}

// SourcePrice snapshots a consulted reference price, unrounded, for audit.
type SourcePrice struct {
	Price *decimal.Decimal `json:"price"`
	Unit  string           `json:"unit"`
}

// ReportParams echoes the static parameters a report was computed with.
type ReportParams struct {
	VATRate             decimal.Decimal `json:"vat_rate"`
	LogisticsCostSeaNGN decimal.Decimal `json:"logistics_cost_sea_ngn"`
	ColtanAirCostUSD    decimal.Decimal `json:"coltan_air_cost_usd"`
	SpodumeneDiscount   decimal.Decimal `json:"spodumene_discount"`
	LepidoliteDiscount  decimal.Decimal `json:"lepidolite_discount"`
}

// PurchaseReport is the complete output document: maximum zero-margin
// purchase prices per ore and grade, plus everything needed to audit how
// they were derived. Created fresh on every run and never mutated after.
type PurchaseReport struct {
	Date              string                         `json:"date"`
	CalculationTime   string                         `json:"calculation_time"`
	RunID             string                         `json:"run_id"`
	ExchangeRates     ResolvedRates                  `json:"exchange_rates"`
	Parameters        ReportParams                   `json:"parameters"`
	SourcePrices      map[string]SourcePrice         `json:"source_prices"`
	MaxPurchasePrices map[Commodity]*CommodityResult `json:"max_purchase_prices"`

	commodityOrder []Commodity
}

// AddResult appends a commodity block, preserving computation order.
func (r *PurchaseReport) AddResult(c Commodity, res *CommodityResult) {
	if r.MaxPurchasePrices == nil {
		r.MaxPurchasePrices = make(map[Commodity]*CommodityResult)
	}
	if _, ok := r.MaxPurchasePrices[c]; !ok {
		r.commodityOrder = append(r.commodityOrder, c)
	}
	r.MaxPurchasePrices[c] = res
}

// Commodities returns the commodities in computation order.
func (r *PurchaseReport) Commodities() []Commodity {
	if len(r.commodityOrder) > 0 {
		return r.commodityOrder
	}
	order := make([]Commodity, 0, len(r.MaxPurchasePrices))
	for c := range r.MaxPurchasePrices {
		order = append(order, c)
	}
	return order
}
