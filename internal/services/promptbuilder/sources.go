package promptbuilder

// Source describes one reference quote to scrape: where it lives and which
// table row carries it.
type Source struct {
	Key  string // snapshot key the agent must emit
	Name string
	URL  string
	Row  string // row label inside the page's price table
	Unit string
}

// SMMSources lists the metal.com quotes the snapshot is built from.
var SMMSources = []Source{
	{
		Key:  "monazite",
		Name: "Monazite Concentrate",
		URL:  "https://www.metal.com/price/Rare-Earth/Concentrate",
		Row:  "Monazite Concentrate (USD/mt)",
		Unit: "USD/mt",
	},
	{
		Key:  "spodumene",
		Name: "Spodumene Concentrate (CIF China)",
		URL:  "https://www.metal.com/price/New-Energy/Lithium",
		Row:  "Spodumene Concentrate Index (CIF China) (USD/mt)",
		Unit: "USD/mt",
	},
	{
		Key:  "lithium_carbonate",
		Name: "Battery-Grade Lithium Carbonate",
		URL:  "https://www.metal.com/price/New-Energy/Lithium",
		Row:  "Battery-Grade Lithium Carbonate (USD/mt)",
		Unit: "USD/mt",
	},
	{
		Key:  "titanium",
		Name: "Titanium Concentrate (Nigeria, TiO2 ≥50%)",
		URL:  "https://www.metal.com/price/Minor-Metals/Titanium",
		Row:  "Titanium Concentrate (Nigeria origin, TiO2 content ≥50%) (yuan/mt)",
		Unit: "CNY/mt",
	},
	{
		Key:  "tantalum_ore",
		Name: "Tantalum Ore (Ta2O5 ≥30%, CIF China)",
		URL:  "https://www.metal.com/price/Minor-Metals/Niobium-Tantalum",
		Row:  "Tantalum Ore (Ta2O5 ≥30%) CIF China",
		Unit: "USD/lb",
	},
	{
		Key:  "tantalum_oxide",
		Name: "Tantalum Oxide (Ta2O5 99.5%)",
		URL:  "https://www.metal.com/price/Minor-Metals/Niobium-Tantalum",
		Row:  "Tantalum Oxide (Ta2O5 99.5%)",
		Unit: "USD/kg",
	},
	{
		Key:  "niobium_oxide",
		Name: "Niobium Oxide (Nb2O5 99.5%)",
		URL:  "https://www.metal.com/price/Minor-Metals/Niobium-Tantalum",
		Row:  "Niobium Oxide (Nb2O5 99.5%)",
		Unit: "USD/kg",
	},
	{
		Key:  "zircon_sand",
		Name: "Zircon Sand",
		URL:  "https://www.metal.com/price/Minor-Metals/Other-Minor-Metals",
		Row:  "Zircon Sand",
		Unit: "USD/mt",
	},
	{
		Key:  "tin",
		Name: "Tin (SMM)",
		URL:  "https://www.metal.com/price/Base-Metals/Tin",
		Row:  "SMM 1# Tin Ingot",
		Unit: "USD/mt",
	},
	{
		Key:  "lead",
		Name: "Lead (SMM)",
		URL:  "https://www.metal.com/price/Base-Metals/Lead",
		Row:  "SMM 1# Lead Ingot",
		Unit: "USD/mt",
	},
	{
		Key:  "zinc",
		Name: "Zinc (SMM)",
		URL:  "https://www.metal.com/price/Base-Metals/Zinc",
		Row:  "SMM 0# Zinc Ingot",
		Unit: "USD/mt",
	},
	{
		Key:  "gold",
		Name: "Gold (SMM)",
		URL:  "https://www.metal.com/price/Precious-Metals/Gold",
		Row:  "Au99.99",
		Unit: "CNY/g",
	},
	{
		Key:  "silver",
		Name: "Silver (SMM)",
		URL:  "https://www.metal.com/price/Precious-Metals/Silver",
		Row:  "Ag99.99",
		Unit: "CNY/kg",
	},
}

// LMESources lists the international quotes used for spread comparison.
var LMESources = []Source{
	{Key: "tin", Name: "Tin (LME)", URL: "https://www.investing.com/commodities/tin", Unit: "USD/mt"},
	{Key: "lead", Name: "Lead (LME)", URL: "https://www.investing.com/commodities/lead", Unit: "USD/mt"},
	{Key: "zinc", Name: "Zinc (LME)", URL: "https://www.investing.com/commodities/zinc", Unit: "USD/mt"},
	{Key: "gold", Name: "Gold (International)", URL: "https://www.investing.com/commodities/gold", Unit: "USD/oz"},
	{Key: "silver", Name: "Silver (International)", URL: "https://www.investing.com/commodities/silver", Unit: "USD/oz"},
}
