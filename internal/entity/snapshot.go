// Package entity defines the data model shared by the fetcher, the derivation
// engine and the storage layer: the raw price snapshot, resolved exchange
// rates and the computed purchase-price report.
package entity

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FlexNumber is a price field that may arrive as a JSON number, a numeric
// string, or null. Zero is treated as "no data": scraped tables use 0 and
// null interchangeably for unavailable quotes.
type FlexNumber struct {
	value   decimal.Decimal
	present bool
}

// NewFlexNumber builds a present FlexNumber, mostly for tests and fixtures.
func NewFlexNumber(d decimal.Decimal) FlexNumber {
	return FlexNumber{value: d, present: true}
}

func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = FlexNumber{}
		return nil
	}

	raw := string(data)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = FlexNumber{}
			return nil
		}
		// scraped values sometimes keep thousand separators
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		if s == "" {
			*f = FlexNumber{}
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			*f = FlexNumber{}
			return nil
		}
		*f = FlexNumber{value: d, present: true}
		return nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		// unexpected shape (object, array, bool) degrades to absent
		*f = FlexNumber{}
		return nil
	}
	*f = FlexNumber{value: d, present: true}
	return nil
}

func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if !f.present {
		return []byte("null"), nil
	}
	return []byte(f.value.String()), nil
}

// Present reports whether a usable non-zero value was decoded.
func (f FlexNumber) Present() bool {
	return f.present && !f.value.IsZero()
}

// Value returns the decoded value; zero when absent.
func (f FlexNumber) Value() decimal.Decimal {
	return f.value
}

// FlexRate is an exchange-rate field that may arrive as a bare number,
// a numeric string, or an object carrying a "rate" field.
type FlexRate struct {
	FlexNumber
}

func (f *FlexRate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Rate FlexNumber `json:"rate"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			f.FlexNumber = FlexNumber{}
			return nil
		}
		f.FlexNumber = obj.Rate
		return nil
	}
	return f.FlexNumber.UnmarshalJSON(data)
}

// Or returns the decoded rate or def when the rate is absent or zero.
func (f FlexRate) Or(def decimal.Decimal) decimal.Decimal {
	if f.Present() {
		return f.Value()
	}
	return def
}

// FlexText is a free-form field (e.g. daily change) that may arrive as a
// string, a number, or null.
type FlexText string

func (t *FlexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*t = ""
			return nil
		}
		*t = FlexText(s)
		return nil
	}
	*t = FlexText(string(data))
	return nil
}

// PriceRecord is one quoted commodity row from the reference market.
type PriceRecord struct {
	Low    FlexNumber `json:"price_low"`
	High   FlexNumber `json:"price_high"`
	Avg    FlexNumber `json:"price_avg"`
	Price  FlexNumber `json:"price"`
	Unit   string     `json:"unit"`
	Change FlexText   `json:"change"`
}

// Field selects a price field by its wire name. Unknown names return an
// absent number rather than failing, matching the tolerant lookup contract.
func (r PriceRecord) Field(name string) FlexNumber {
	switch name {
	case "price_avg":
		return r.Avg
	case "price_low":
		return r.Low
	case "price_high":
		return r.High
	case "price":
		return r.Price
	default:
		return FlexNumber{}
	}
}

// DataIssues carries the feed's own account of what it could not scrape.
type DataIssues struct {
	Unavailable []string `json:"unavailable,omitempty"`
	Reasons     string   `json:"reasons,omitempty"`
}

// PriceSnapshot is the immutable input document produced by the price feed.
// The engine only reads it; unknown keys are preserved in Raw.
type PriceSnapshot struct {
	Date          string                 `json:"date"`
	FetchTime     string                 `json:"fetch_time,omitempty"`
	ExchangeRates map[string]FlexRate    `json:"exchange_rates"`
	SMMPrices     map[string]PriceRecord `json:"smm_prices"`
	LMEPrices     map[string]PriceRecord `json:"lme_prices,omitempty"`
	DataIssues    DataIssues             `json:"data_issues,omitempty"`

	// Raw is the sanitized JSON document as received, kept for persistence.
	Raw []byte `json:"-"`
}

// ParseSnapshot decodes a snapshot from raw agent output. The payload may be
// wrapped in markdown code fences or surrounded by prose; everything outside
// the outermost braces is stripped before decoding.
func ParseSnapshot(raw string) (*PriceSnapshot, error) {
	payload := sanitizeSnapshotPayload(raw)
	if !json.Valid([]byte(payload)) {
		return nil, errors.New("snapshot payload is not valid JSON")
	}

	var snap PriceSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}

	if snap.Date == "" {
		snap.Date = time.Now().Format("2006-01-02")
	}
	snap.Raw = []byte(payload)
	return &snap, nil
}

func sanitizeSnapshotPayload(raw string) string {
	payload := strings.TrimSpace(raw)
	if idx := strings.Index(payload, "```json"); idx >= 0 {
		payload = payload[idx+len("```json"):]
		if end := strings.Index(payload, "```"); end >= 0 {
			payload = payload[:end]
		}
	} else {
		payload = strings.TrimPrefix(payload, "```")
		payload = strings.TrimSuffix(payload, "```")
	}

	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start >= 0 && end > start {
		payload = payload[start : end+1]
	}
	return strings.TrimSpace(payload)
}
