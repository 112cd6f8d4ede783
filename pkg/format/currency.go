// Package format renders simulated figures for terminal output.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Currency returns whole-dollar currency with thousands separators
// (e.g., "-$1,250,000"). Simulated amounts carry no cents.
func Currency(amount int64) string {
	if amount < 0 {
		return "-$" + groupThousands(-amount)
	}
	return "$" + groupThousands(amount)
}

// Count returns an integer with thousands separators (e.g., "1,243").
func Count(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	return groupThousands(n)
}

// Percentage renders a whole percentage (e.g., "75%").
func Percentage(value int64) string {
	return fmt.Sprintf("%d%%", value)
}

// Compact abbreviates large amounts the way dashboard tiles do
// (e.g., 1250000 -> "$1.25M", 87000 -> "$87K").
func Compact(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	switch {
	case amount >= 1_000_000:
		return sign + "$" + trimZeros(float64(amount)/1_000_000) + "M"
	case amount >= 1_000:
		return sign + "$" + trimZeros(float64(amount)/1_000) + "K"
	}
	return sign + "$" + strconv.FormatInt(amount, 10)
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func groupThousands(value int64) string {
	intPart := strconv.FormatInt(value, 10)
	if len(intPart) <= 3 {
		return intPart
	}

	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
