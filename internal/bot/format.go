package bot

import (
	"fmt"
	"strings"

	appmodels "gitlab.com/yelinaung/quickrate/internal/models"
	"gitlab.com/yelinaung/quickrate/internal/view"
)

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func formatGreeting(firstName string) string {
	if firstName == "" {
		return ""
	}
	return ", " + escapeHTML(firstName)
}

// formatConversion renders the derived result, or a hint for what is missing.
func formatConversion(m view.Model) string {
	switch {
	case m.Result.OK:
		return fmt.Sprintf("💱 <b>%s %s = %s %s</b>",
			escapeHTML(m.Amount), m.BaseCurrency, m.Display, escapeHTML(m.Currency))
	case m.Currency == "":
		return "Pick a currency with /currency."
	case strings.TrimSpace(m.Amount) == "":
		return fmt.Sprintf("Currency: <b>%s</b>\nSend an amount in %s, e.g. <code>13000</code>.",
			escapeHTML(m.Currency), m.BaseCurrency)
	default:
		return fmt.Sprintf("No rate available for <b>%s</b>. Pick another with /currency.", escapeHTML(m.Currency))
	}
}

func formatCurrencyList(m view.Model) string {
	if len(m.Options) == 0 {
		return "📭 No currencies available."
	}

	var sb strings.Builder
	sb.WriteString("💱 <b>Currencies</b>\n\n")
	for _, opt := range m.Options {
		fmt.Fprintf(&sb, "• <code>%s</code> %s", escapeHTML(opt.Code), escapeHTML(opt.Label))
		if opt.Selected {
			sb.WriteString(" ✅")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nSelect with <code>/currency USD</code>")
	return sb.String()
}

// formatRatesTable lists code, base dealing rate and name in a monospace block.
func formatRatesTable(records []appmodels.ExchangeRateRecord, selected string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 <b>Exchange Rates</b> (%s)\n<pre>", appmodels.BaseCurrency)
	fmt.Fprintf(&sb, "  %-9s %12s  %s\n", "Code", "Base Rate", "Name")
	for _, rec := range records {
		marker := " "
		if rec.CurUnit == selected {
			marker = "*"
		}
		rate := rec.DealBaseRate
		if rate == "" {
			rate = "-"
		}
		fmt.Fprintf(&sb, "%s %-9s %12s  %s\n",
			marker, escapeHTML(rec.CurUnit), escapeHTML(rate), escapeHTML(rec.CurName))
	}
	sb.WriteString("</pre>")
	return sb.String()
}
