package metrics

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a dollar amount rounded to whole dollars with
// thousands separators: 750000 -> "$750,000", -1200 -> "-$1,200".
func FormatPrice(amount float64) string {
	whole := decimal.NewFromFloat(amount).Round(0).IntPart()
	if whole < 0 {
		return "-$" + printer.Sprintf("%d", -whole)
	}
	return "$" + printer.Sprintf("%d", whole)
}

// FormatPercent renders a percentage value with one decimal: 5.8 -> "5.8%".
func FormatPercent(value float64) string {
	return FormatNumber(value) + "%"
}

// FormatNumber renders value with exactly one decimal place. Halves round
// away from zero on the shortest decimal form of value, so 0.15 -> "0.2".
func FormatNumber(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(1)
}
