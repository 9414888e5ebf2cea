package utils

import (
	"strconv"
	"strings"
)

// TakaSign is the Bengali Taka glyph used in front of every amount.
const TakaSign = "৳"

// FormatTaka renders an amount as "৳1,500" or "৳1,500.50". Whole amounts
// drop the fraction.
func FormatTaka(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	text := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(text, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(TakaSign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
