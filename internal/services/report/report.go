// Package report renders the derived purchase-price report for the console.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/cyliang3/kursi-prices/internal/entity"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}).
			Bold(true).
			MarginTop(1)

	commodityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}).
			Bold(true)

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	footerStyle = lipgloss.NewStyle().
			Faint(true).
			MarginTop(1)
)

// spreadPairs are the quotes compared between the SMM and LME feeds.
var spreadPairs = []struct {
	key   string
	label string
}{
	{"tin", "Tin"},
	{"lead", "Lead"},
	{"zinc", "Zinc"},
	{"gold", "Gold"},
	{"silver", "Silver"},
}

// Renderer formats a report (and optionally its source snapshot) as text.
type Renderer struct{}

// NewRenderer returns a console renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the full console report. snap may be nil; the SMM-vs-LME
// spread section is skipped then.
func (r *Renderer) Render(rep *entity.PurchaseReport, snap *entity.PriceSnapshot) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Maximum purchase prices - zero-margin ceiling (%s)", rep.Date)))
	sb.WriteString("\n")

	rates := rep.ExchangeRates
	sb.WriteString(fmt.Sprintf("FX: 1 USD = %s NGN | 1 USD = %s CNY | 1 CNY = %s NGN (%s)\n",
		group(rates.UsdNgn.Round(0)),
		rates.UsdCny.StringFixed(4),
		rates.CnyNgn.StringFixed(2),
		rates.CnyNgnSource))

	params := rep.Parameters
	sb.WriteString(fmt.Sprintf("Sea logistics: %s NGN/mt | VAT: %s%% | spodumene discount: %s%% | lepidolite discount: %s%%\n",
		group(params.LogisticsCostSeaNGN),
		params.VATRate.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).StringFixed(0),
		params.SpodumeneDiscount.Mul(decimal.NewFromInt(100)).StringFixed(0),
		params.LepidoliteDiscount.Mul(decimal.NewFromInt(100)).StringFixed(0)))

	r.renderSourcePrices(&sb, rep)
	if snap != nil {
		r.renderSpreads(&sb, snap)
	}
	r.renderPurchasePrices(&sb, rep)

	sb.WriteString(footerStyle.Render("Zero-profit ceilings: leave margin below these prices when buying."))
	sb.WriteString("\n")
	return sb.String()
}

func (r *Renderer) renderSourcePrices(sb *strings.Builder, rep *entity.PurchaseReport) {
	sb.WriteString(sectionStyle.Render("Reference prices"))
	sb.WriteString("\n")
	for _, name := range sourceOrder(rep) {
		src := rep.SourcePrices[name]
		if src.Price == nil {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", name, missingStyle.Render("unavailable")))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-20s %14s %s\n", name, group(src.Price.Round(2)), src.Unit))
	}
}

func (r *Renderer) renderSpreads(sb *strings.Builder, snap *entity.PriceSnapshot) {
	rows := make([]string, 0, len(spreadPairs))
	for _, pair := range spreadPairs {
		smmRec, okSMM := snap.SMMPrices[pair.key]
		lmeRec, okLME := snap.LMEPrices[pair.key]
		if !okSMM || !okLME {
			continue
		}

		smm := smmRec.Avg
		if !smm.Present() {
			smm = smmRec.Price
		}
		lme := lmeRec.Price
		if !smm.Present() || !lme.Present() {
			continue
		}

		diff := smm.Value().Sub(lme.Value())
		pct := diff.Div(lme.Value()).Mul(decimal.NewFromInt(100))
		rows = append(rows, fmt.Sprintf("  %-8s SMM %12s | LME %12s | spread %12s (%6s%%)",
			pair.label, group(smm.Value().Round(0)), group(lme.Value().Round(0)),
			group(diff.Round(0)), pct.StringFixed(2)))
	}
	if len(rows) == 0 {
		return
	}

	sb.WriteString(sectionStyle.Render("SMM vs LME"))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(row)
		sb.WriteString("\n")
	}
}

func (r *Renderer) renderPurchasePrices(sb *strings.Builder, rep *entity.PurchaseReport) {
	sb.WriteString(sectionStyle.Render("Maximum purchase prices"))
	sb.WriteString("\n")

	for _, commodity := range rep.Commodities() {
		result := rep.MaxPurchasePrices[commodity]

		header := fmt.Sprintf("%s [%s]", commodity, result.Unit)
		if result.Note != "" {
			header += " (" + result.Note + ")"
		}
		sb.WriteString("  " + commodityStyle.Render(header) + "\n")
		sb.WriteString(fmt.Sprintf("    base grade: %s\n", result.BaseGrade))

		for _, label := range result.GradeLabels() {
			price := result.Grades[label]
			if price.Missing {
				sb.WriteString(fmt.Sprintf("    %6s → %s\n", label, missingStyle.Render("data missing")))
				continue
			}
			sb.WriteString(fmt.Sprintf("    %6s → %14s %s\n", label, group(price.Value.Round(0)), result.Unit))
		}
	}
}

func sourceOrder(rep *entity.PurchaseReport) []string {
	// stable order for rendering; map iteration order is not
	known := []string{
		"tin", "tantalum_oxide", "monazite", "titanium", "zircon",
		"spodumene", "lithium_carbonate", "lead", "zinc",
	}
	order := make([]string, 0, len(rep.SourcePrices))
	seen := make(map[string]bool, len(rep.SourcePrices))
	for _, name := range known {
		if _, ok := rep.SourcePrices[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}
	for name := range rep.SourcePrices {
		if !seen[name] {
			order = append(order, name)
		}
	}
	return order
}

// group renders a decimal with thousands separators for display.
func group(d decimal.Decimal) string {
	s := d.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.Index(s, "."); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}

	var out strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(ch)
	}

	result := out.String() + fracPart
	if neg {
		result = "-" + result
	}
	return result
}
