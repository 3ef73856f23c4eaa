package promptbuilder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScrapingPrompt_EnumeratesEverySource(t *testing.T) {
	prompt := New().BuildScrapingPrompt(time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC))

	assert.Contains(t, prompt, "2025-12-01")

	for _, src := range SMMSources {
		assert.Contains(t, prompt, src.URL, "SMM source %s must be in the prompt", src.Key)
		assert.Contains(t, prompt, "smm_prices."+src.Key)
	}
	for _, src := range LMESources {
		assert.Contains(t, prompt, src.URL, "LME source %s must be in the prompt", src.Key)
		assert.Contains(t, prompt, "lme_prices."+src.Key)
	}
}

func TestBuildScrapingPrompt_AsksForParallelMarketRates(t *testing.T) {
	prompt := New().BuildScrapingPrompt(time.Now())

	assert.Contains(t, prompt, "PARALLEL MARKET")
	assert.Contains(t, prompt, "usd_cny")
	assert.Contains(t, prompt, "cny_ngn")
}

func TestBuildScrapingPrompt_SchemaListsEveryQuoteKey(t *testing.T) {
	prompt := New().BuildScrapingPrompt(time.Now())

	// the schema block is the last fenced JSON section
	idx := strings.LastIndex(prompt, "```json")
	require.Greater(t, idx, 0)
	schema := prompt[idx:]

	for _, src := range SMMSources {
		assert.Contains(t, schema, `"`+src.Key+`"`)
	}
	assert.Contains(t, schema, `"exchange_rates"`)
	assert.Contains(t, schema, `"data_issues"`)
}

func TestSourceCatalog_KeysAreUniquePerFeed(t *testing.T) {
	for name, catalog := range map[string][]Source{"smm": SMMSources, "lme": LMESources} {
		seen := make(map[string]bool)
		for _, src := range catalog {
			assert.False(t, seen[src.Key], "duplicate %s source key %s", name, src.Key)
			seen[src.Key] = true
		}
	}
}

func TestSourceCatalog_CoversEveryFormulaInput(t *testing.T) {
	keys := make(map[string]bool, len(SMMSources))
	for _, src := range SMMSources {
		keys[src.Key] = true
	}

	for _, needed := range []string{
		"tin", "tantalum_oxide", "monazite", "titanium",
		"zircon_sand", "spodumene", "lithium_carbonate", "lead", "zinc",
	} {
		assert.True(t, keys[needed], "formula input %s has no scrape source", needed)
	}
}
