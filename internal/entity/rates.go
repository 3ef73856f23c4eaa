package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RateProvenance records how the CNY/NGN leg was established.
type RateProvenance string

const (
	ProvenanceManualOverride RateProvenance = "manual-override"
	ProvenanceDerived        RateProvenance = "derived"
)

// ResolvedRates is the consistent FX triple used by every pricing formula.
//
// USD/CNY and CNY/NGN are the two authoritative legs; USD/NGN is always their
// product. A directly observed USD/NGN quote is never consulted, so the
// invariant USD_NGN == CNY_NGN * USD_CNY holds by construction even when the
// scraped rates disagree with each other.
type ResolvedRates struct {
	UsdCny       decimal.Decimal
	CnyNgn       decimal.Decimal
	UsdNgn       decimal.Decimal
	CnyNgnSource RateProvenance
}

// NewResolvedRates builds the triple from the two authoritative legs.
func NewResolvedRates(usdCny, cnyNgn decimal.Decimal, source RateProvenance) ResolvedRates {
	return ResolvedRates{
		UsdCny:       usdCny,
		CnyNgn:       cnyNgn,
		UsdNgn:       cnyNgn.Mul(usdCny),
		CnyNgnSource: source,
	}
}

func (r ResolvedRates) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		UsdNgn       decimal.Decimal `json:"usd_ngn"`
		UsdCny       decimal.Decimal `json:"usd_cny"`
		CnyNgn       decimal.Decimal `json:"cny_ngn"`
		CnyNgnSource RateProvenance  `json:"cny_ngn_source"`
	}{r.UsdNgn, r.UsdCny, r.CnyNgn, r.CnyNgnSource})
}

func (r *ResolvedRates) UnmarshalJSON(data []byte) error {
	var tmp struct {
		UsdNgn       decimal.Decimal `json:"usd_ngn"`
		UsdCny       decimal.Decimal `json:"usd_cny"`
		CnyNgn       decimal.Decimal `json:"cny_ngn"`
		CnyNgnSource RateProvenance  `json:"cny_ngn_source"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*r = ResolvedRates{tmp.UsdCny, tmp.CnyNgn, tmp.UsdNgn, tmp.CnyNgnSource}
	return nil
}
