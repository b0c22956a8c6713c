// Package money formats currency amounts for display. Amounts are
// quantized to two decimal places with thousands grouping and labeled
// with a three-letter currency code. No conversion happens here; the
// code is a pass-through label chosen by the deployment.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount as "CODE 1,234.56". Negative amounts keep the
// sign ahead of the grouped digits: "CODE -1,234.56".
func Format(amount float64, currency string) string {
	return currency + " " + Amount(amount)
}

// Amount renders an amount as "1,234.56" without a currency label.
func Amount(amount float64) string {
	fixed := decimal.NewFromFloat(amount).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	grouped := group(whole)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(grouped)
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// group inserts comma separators into a run of digits.
func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
