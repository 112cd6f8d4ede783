// Package mathutil provides common integer helpers for simulated metrics.
package mathutil

import "math"

// Round rounds half away from zero to the nearest whole unit. All simulated
// metrics are whole counts or whole currency units.
func Round(val float64) int64 {
	return int64(math.Round(val))
}

// Clamp forces v into [lo, hi]. When lo > hi, lo wins.
func Clamp(v, lo, hi int64) int64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// NonNegative returns v, or 0 when v is negative.
func NonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Min returns the minimum of two int64 values
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two int64 values
func Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Sum adds up values.
func Sum(values ...int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}
