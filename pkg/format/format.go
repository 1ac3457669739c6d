// Package format provides shared formatting helpers for money and percentages.
package format

import (
	"fmt"
	"strings"
)

// Money formats an amount as dollars with thousands separators.
func Money(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := groupThousands(parts[0])

	result := "$" + intPart + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var sb strings.Builder
	rem := n % 3
	if rem > 0 {
		sb.WriteString(s[:rem])
	}
	for i := rem; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// Percent formats a ratio already expressed as a percentage.
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// Confidence formats a 0-100 confidence value.
func Confidence(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

// Truncate shortens a string to at most n runes, appending an ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
