package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/firefly-bot/internal/firefly"
)

// FormatTransaction renders one transaction as a chat line:
// "4.50€ Checking → Cafe (Food)".
func FormatTransaction(v *firefly.TransactionView) string {
	line := fmt.Sprintf("%s%s %s → %s",
		v.Amount.StringFixed(2), v.CurrencySymbol, v.SourceName, v.DestinationName)
	if v.CategoryName != "" {
		line += fmt.Sprintf(" (%s)", v.CategoryName)
	}
	return line
}

// FormatRecent renders recent transactions as markdown code blocks, one
// entry per block, oldest first.
func FormatRecent(views []firefly.TransactionView) string {
	var b strings.Builder
	for i, v := range views {
		if i > 0 {
			b.WriteByte('\n')
		}
		category := v.CategoryName
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(&b, "``` %s %s → %s \n %s %s (%s) ```",
			shortDate(v.Date), v.SourceName, v.DestinationName,
			v.Amount.StringFixed(2), v.Description, category)
	}
	return b.String()
}

// FormatBalances renders asset balances with a total, monospace-aligned.
func FormatBalances(balances []firefly.Balance) string {
	var b strings.Builder
	b.WriteString("```\n")

	total := decimal.Zero
	symbol := ""
	for _, bal := range balances {
		total = total.Add(bal.Amount)
		if symbol == "" {
			symbol = bal.CurrencySymbol
		}
		fmt.Fprintf(&b, "%s %s%s\n", padName(bal.Name), bal.Amount.StringFixed(2), bal.CurrencySymbol)
	}
	fmt.Fprintf(&b, "%s %s%s```", padName("TOTAL"), total.StringFixed(2), symbol)
	return b.String()
}

// shortDate turns an ISO timestamp into "yy-mm-dd".
func shortDate(date string) string {
	day := strings.SplitN(date, "T", 2)[0]
	if len(day) > 2 {
		return day[2:]
	}
	return day
}

func padName(name string) string {
	const width = 12
	if len(name) >= width {
		return name + ":"
	}
	return name + ":" + strings.Repeat(" ", width-len(name))
}
