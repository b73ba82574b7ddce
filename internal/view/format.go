package view

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// FormatCurrency renders an amount in Polish złoty format: comma decimal
// separator, space-grouped thousands, "zł" suffix (e.g. "1 500,00 zł").
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(' ')
		}
		grouped.WriteRune(r)
	}
	out := grouped.String() + "," + fracPart + " zł"
	if neg {
		out = "-" + out
	}
	return out
}

// MonthName returns the English month name for 1..12, empty otherwise.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// FormatMonthYear renders a payment period for display, e.g. "June 2026".
func FormatMonthYear(month, year int) string {
	name := MonthName(month)
	if name == "" {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%s %d", name, year)
}
