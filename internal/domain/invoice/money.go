package invoice

import "github.com/shopspring/decimal"

// CurrencyPrefix is prepended to every monetary amount on the document
const CurrencyPrefix = "R "

// FormatMoney renders an amount with exactly two fractional digits.
// Halves round away from zero: 10.005 -> "R 10.01".
func FormatMoney(d decimal.Decimal) string {
	return CurrencyPrefix + d.StringFixed(2)
}

// FormatQuantity renders a quantity without trailing zeros
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}
