// Package display formats wallet, score, loan and pool data for the terminal.
package display

import (
	"strings"

	"github.com/shopspring/decimal"

	"socialfi/internal/domain"
)

// Denomination is the number of decimals of the native token.
const Denomination = 18

// FormatBalance renders a smallest-unit integer string in whole tokens with
// four decimals. An empty or unparseable balance renders as "0".
func FormatBalance(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "0"
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "0"
	}
	return d.Shift(-Denomination).StringFixed(4)
}

// ShortAddress keeps the first 6 and last 4 characters of addr.
func ShortAddress(addr domain.Address) string {
	s := addr.String()
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// ScoreCategory buckets a score by its percentage of the maximum.
func ScoreCategory(sc domain.UserScore) string {
	switch pct := sc.Percentage(); {
	case pct >= 75:
		return "Excellent"
	case pct >= 50:
		return "Good"
	case pct >= 25:
		return "Average"
	default:
		return "Starter"
	}
}
