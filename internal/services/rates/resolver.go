// Package rates normalizes the possibly-incomplete scraped FX rates into a
// consistent USD/CNY, CNY/NGN, USD/NGN triple.
package rates

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

// Fallbacks used when a leg is missing from the snapshot. Missing inputs
// degrade to these instead of failing: downstream formulas must still
// produce best-effort output for partial data.
var (
	defaultUsdCny = decimal.NewFromFloat(7.0)
	defaultCnyNgn = decimal.NewFromFloat(212.35)
)

// Resolver turns raw snapshot rate entries into entity.ResolvedRates.
type Resolver struct {
	// CnyNgnOverride, when set, unconditionally replaces the scraped
	// CNY/NGN leg. Parallel-market rates scraped from public sources tend
	// to run high, so operations pin this leg manually.
	cnyNgnOverride *decimal.Decimal
	logger         *zap.Logger
}

// NewResolver creates a resolver with an optional manual CNY/NGN override.
func NewResolver(cnyNgnOverride *decimal.Decimal, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{cnyNgnOverride: cnyNgnOverride, logger: logger}
}

// Resolve establishes USD/CNY and CNY/NGN (override first, then snapshot,
// then default) and derives USD/NGN as their product. The snapshot's own
// USD/NGN quote, if any, is discarded: mutual consistency of the triple is
// worth more to the formulas than one directly observed leg.
func (r *Resolver) Resolve(raw map[string]entity.FlexRate) entity.ResolvedRates {
	usdCny := raw["usd_cny"].Or(defaultUsdCny)

	var (
		cnyNgn decimal.Decimal
		source entity.RateProvenance
	)
	if r.cnyNgnOverride != nil {
		cnyNgn = *r.cnyNgnOverride
		source = entity.ProvenanceManualOverride
	} else {
		cnyNgn = raw["cny_ngn"].Or(defaultCnyNgn)
		source = entity.ProvenanceDerived
	}

	resolved := entity.NewResolvedRates(usdCny, cnyNgn, source)

	if observed := raw["usd_ngn"]; observed.Present() && !observed.Value().Equal(resolved.UsdNgn) {
		r.logger.Debug("discarding observed USD/NGN quote in favor of derived rate",
			zap.String("observed", observed.Value().String()),
			zap.String("derived", resolved.UsdNgn.String()))
	}

	return resolved
}
