// Package promptbuilder assembles the scraping instructions sent to the
// browsing agent: which pages to visit, which table rows to read, and the
// exact JSON document to return.
package promptbuilder

import (
	"fmt"
	"strings"
	"time"
)

// PromptBuilder renders the daily scraping prompt from the source catalog.
type PromptBuilder struct {
	smm []Source
	lme []Source
}

// New returns a builder over the default source catalog.
func New() *PromptBuilder {
	return &PromptBuilder{smm: SMMSources, lme: LMESources}
}

// BuildScrapingPrompt renders the full agent prompt for the given day.
func (b *PromptBuilder) BuildScrapingPrompt(date time.Time) string {
	day := date.Format("2006-01-02")

	var sb strings.Builder
	sb.WriteString("You are a metals and minerals price data collector. Browse the pages below ")
	sb.WriteString(fmt.Sprintf("like a regular user and extract today's (%s) prices.\n\n", day))
	sb.WriteString("Rules:\n")
	sb.WriteString("- Wait for each page to fully load before reading the tables.\n")
	sb.WriteString("- Read Price Range, Avg and Change columns where present.\n")
	sb.WriteString("- Return a single JSON document and nothing else.\n\n")

	sb.WriteString("## SMM quotes (metal.com)\n\n")
	for _, src := range b.smm {
		sb.WriteString(fmt.Sprintf("- %s: open %s and find the row %q (%s). Emit it under smm_prices.%s.\n",
			src.Name, src.URL, src.Row, src.Unit, src.Key))
	}

	sb.WriteString("\n## International quotes (investing.com)\n\n")
	for _, src := range b.lme {
		sb.WriteString(fmt.Sprintf("- %s: open %s, read the current price and change. Emit it under lme_prices.%s (%s).\n",
			src.Name, src.URL, src.Key, src.Unit))
	}

	sb.WriteString("\n## Exchange rates\n\n")
	sb.WriteString("Find today's rates for:\n")
	sb.WriteString("- USD/CNY: official central-bank rate.\n")
	sb.WriteString("- USD/NGN and CNY/NGN: Nigerian PARALLEL MARKET rates, not the official peg. ")
	sb.WriteString("Search for \"Nigeria Naira parallel market rate today\" or \"USD NGN black market rate\" if needed. ")
	sb.WriteString("Parallel rates run well above the official rate.\n\n")

	sb.WriteString("## Output format\n\n")
	sb.WriteString("Return exactly this JSON shape, with every null replaced by the scraped value ")
	sb.WriteString("(keep null and explain in data_issues when a value is genuinely unavailable):\n\n")
	sb.WriteString(b.outputSchema(day))
	return sb.String()
}

func (b *PromptBuilder) outputSchema(day string) string {
	var sb strings.Builder
	sb.WriteString("```json\n{\n")
	sb.WriteString(fmt.Sprintf("  %q: %q,\n", "date", day))
	sb.WriteString(fmt.Sprintf("  %q: null,\n", "fetch_time"))

	sb.WriteString("  \"smm_prices\": {\n")
	for i, src := range b.smm {
		comma := ","
		if i == len(b.smm)-1 {
			comma = ""
		}
		sb.WriteString(fmt.Sprintf("    %q: {\"price_low\": null, \"price_high\": null, \"price_avg\": null, \"unit\": %q, \"change\": null}%s\n",
			src.Key, src.Unit, comma))
	}
	sb.WriteString("  },\n")

	sb.WriteString("  \"lme_prices\": {\n")
	for i, src := range b.lme {
		comma := ","
		if i == len(b.lme)-1 {
			comma = ""
		}
		sb.WriteString(fmt.Sprintf("    %q: {\"price\": null, \"unit\": %q, \"change\": null}%s\n", src.Key, src.Unit, comma))
	}
	sb.WriteString("  },\n")

	sb.WriteString("  \"exchange_rates\": {\"usd_cny\": null, \"usd_ngn\": null, \"cny_ngn\": null, \"rate_type\": \"parallel_market\"},\n")
	sb.WriteString("  \"data_issues\": {\"unavailable\": [], \"reasons\": \"\"}\n")
	sb.WriteString("}\n```\n")
	return sb.String()
}
