package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix precedes every formatted amount
const CurrencyPrefix = "Rp "

// maxFractionDigits matches the Indonesian locale default of at most three
// fraction digits with no forced trailing zeros.
const maxFractionDigits = 3

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatNumber renders d with "." grouping and "," as decimal mark.
// Example: 1234567.5 -> "1.234.567,5"
func FormatNumber(d decimal.Decimal) string {
	d = d.Round(maxFractionDigits)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.SplitN(d.StringFixed(maxFractionDigits), ".", 2)
	intPart := parts[0]
	decPart := ""
	if len(parts) > 1 {
		decPart = strings.TrimRight(parts[1], "0")
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune('.')
		}
		result.WriteRune(c)
	}
	if decPart != "" {
		result.WriteRune(',')
		result.WriteString(decPart)
	}
	return sign + result.String()
}

// FormatCurrency renders an amount as "Rp 100.000"
func FormatCurrency(d decimal.Decimal) string {
	return CurrencyPrefix + FormatNumber(d)
}

// FormatDate renders a date in the long Indonesian form, e.g. "19 Oktober 2026".
// The zero time renders as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}
