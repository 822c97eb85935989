// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatRupiah formats an amount in Indonesian rupiah with thousand
// separators, e.g. Rp1.500.000.000.
func FormatRupiah(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	intPart := fmt.Sprintf("%.0f", amount)
	formatted := groupThousands(intPart)

	result := "Rp" + formatted
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts Indonesian-style dot separators every three digits.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var groups []string
	for n > 3 {
		groups = append([]string{s[n-3:]}, groups...)
		s = s[:n-3]
		n = len(s)
	}
	groups = append([]string{s}, groups...)

	return strings.Join(groups, ".")
}

// FormatPercent formats a percentage with an explicit sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatCompact formats a rupiah amount in compact form (Jt/M/T).
func FormatCompact(amount float64) string {
	abs := amount
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= 1_000_000_000_000:
		return fmt.Sprintf("%.2f T", amount/1_000_000_000_000)
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.2f M", amount/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2f Jt", amount/1_000_000)
	}
	return FormatRupiah(amount)
}
