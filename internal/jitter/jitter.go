// Package jitter applies bounded random variation to simulated metrics.
package jitter

import (
	"math/rand"
	"time"

	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/mathutil"
)

// Source yields uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded pseudo-random source. A zero seed derives one
// from the current time. The result is not safe for concurrent use.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Vary returns v moved by at most fraction*v in either direction, rounded to
// a whole unit and never negative. Zero and negative inputs yield 0.
func Vary(src Source, v int64, fraction float64) int64 {
	if v <= 0 {
		return 0
	}
	u := src.Float64()*2 - 1
	return mathutil.NonNegative(mathutil.Round(float64(v) + u*fraction*float64(v)))
}

// Bounded varies the metric value and clamps it into its domain.
func Bounded(src Source, m snapshot.BoundedMetric, fraction float64) snapshot.BoundedMetric {
	return m.WithValue(Vary(src, m.Value, fraction))
}

// Floor varies v and keeps it at or above min.
func Floor(src Source, v, min int64, fraction float64) int64 {
	return mathutil.Max(min, Vary(src, v, fraction))
}

// Categories varies every item of a breakdown in place.
func Categories(src Source, items []snapshot.CategoryItem, fraction float64) {
	for i := range items {
		items[i].Value = Vary(src, items[i].Value, fraction)
	}
}

// Current varies the mutable point of a series in field order. History is
// left untouched. Fields without a fraction keep their value.
func Current(src Source, series *snapshot.TimeSeries, fractions map[string]float64) {
	for _, field := range series.Fields {
		f, ok := fractions[field]
		if !ok {
			continue
		}
		series.Current.Values[field] = Vary(src, series.Current.Values[field], f)
	}
}
