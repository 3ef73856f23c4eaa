package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

// PriceBook resolves named reference prices inside a snapshot, tolerant of
// alternate field names and missing or zero values. A stored price of 0 is
// equivalent to absence; Lookup never reports 0 as a valid price.
type PriceBook struct {
	prices map[string]entity.PriceRecord
	logger *zap.Logger
}

// NewPriceBook builds a book over the snapshot's reference prices.
func NewPriceBook(snap *entity.PriceSnapshot, logger *zap.Logger) *PriceBook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceBook{prices: snap.SMMPrices, logger: logger}
}

// Lookup resolves the average price for key, falling back to the generic
// "price" field and then to each fallback key in order. The boolean is false
// on a total miss; callers must treat that as "cannot compute", not zero.
func (b *PriceBook) Lookup(key string, fallbacks ...string) (decimal.Decimal, bool) {
	return b.LookupField(key, "price_avg", fallbacks...)
}

// LookupField is Lookup with an explicit primary field name.
func (b *PriceBook) LookupField(key, field string, fallbacks ...string) (decimal.Decimal, bool) {
	if price, ok := b.tryRecord(key, field); ok {
		return price, true
	}
	for _, fb := range fallbacks {
		if price, ok := b.tryRecord(fb, field); ok {
			return price, true
		}
	}

	// observability only: helps operators spot upstream field renames
	b.logger.Warn("reference price not found in snapshot",
		zap.String("key", key),
		zap.String("field", field),
		zap.Strings("available_keys", b.availableKeys()))
	return decimal.Decimal{}, false
}

func (b *PriceBook) tryRecord(key, field string) (decimal.Decimal, bool) {
	record, ok := b.prices[key]
	if !ok {
		return decimal.Decimal{}, false
	}
	if v := record.Field(field); v.Present() {
		return v.Value(), true
	}
	if v := record.Field("price"); v.Present() {
		return v.Value(), true
	}
	return decimal.Decimal{}, false
}

func (b *PriceBook) availableKeys() []string {
	keys := make([]string, 0, len(b.prices))
	for k := range b.prices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
