// Package snapshot defines the simulated analytics model served to the
// dashboards. A Snapshot is a point-in-time value: once published it is never
// written again, and every simulation cycle produces a fresh one.
package snapshot

import (
	"fmt"
	"strings"
	"time"
)

// RatioWhole is the fixed total that every DerivedRatio splits.
const RatioWhole int64 = 100

// MinWeight is the smallest bubble weight on the materiality matrix.
const MinWeight int64 = 1

// RiskTier classifies an item as high, medium or low risk.
type RiskTier string

const (
	RiskHigh   RiskTier = "high"
	RiskMedium RiskTier = "medium"
	RiskLow    RiskTier = "low"
)

// Valid reports whether the tier is one of the known tiers.
func (r RiskTier) Valid() bool {
	switch r {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

// Dashboard names one of the simulated dashboards.
type Dashboard string

const (
	DashboardTax     Dashboard = "tax"
	DashboardRevenue Dashboard = "revenue"
	DashboardLeases  Dashboard = "leases"
)

// Dashboards lists every dashboard in display order.
var Dashboards = []Dashboard{DashboardTax, DashboardRevenue, DashboardLeases}

// ParseDashboard converts a user supplied name into a Dashboard.
func ParseDashboard(name string) (Dashboard, error) {
	d := Dashboard(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Dashboards {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dashboard %q, expected one of tax, revenue, leases", name)
}

// Snapshot is one consistent view of every dashboard.
type Snapshot struct {
	ID          string           `json:"id"`
	Sequence    uint64           `json:"sequence"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Tax         TaxDashboard     `json:"tax"`
	Revenue     RevenueDashboard `json:"revenue"`
	Leases      LeaseDashboard   `json:"leases"`
}

// Section returns the named dashboard as an untyped value for encoding.
func (s *Snapshot) Section(d Dashboard) (interface{}, bool) {
	switch d {
	case DashboardTax:
		return s.Tax, true
	case DashboardRevenue:
		return s.Revenue, true
	case DashboardLeases:
		return s.Leases, true
	}
	return nil, false
}

// CategoryItem is one entry of a categorical breakdown.
type CategoryItem struct {
	Label string   `json:"label"`
	Value int64    `json:"value"`
	Risk  RiskTier `json:"risk,omitempty"`
}

// BoundedMetric is a value that must always stay inside [Min, Max].
type BoundedMetric struct {
	Value int64 `json:"value"`
	Min   int64 `json:"min"`
	Max   int64 `json:"max"`
}

// Percent returns a metric bounded to the [0,100] domain.
func Percent(v int64) BoundedMetric {
	return BoundedMetric{Value: v, Min: 0, Max: 100}.Clamp()
}

// Clamp returns the metric with Value forced into its domain.
func (b BoundedMetric) Clamp() BoundedMetric {
	if b.Value < b.Min {
		b.Value = b.Min
	}
	if b.Value > b.Max {
		b.Value = b.Max
	}
	return b
}

// WithValue returns a copy carrying v, clamped to the domain.
func (b BoundedMetric) WithValue(v int64) BoundedMetric {
	b.Value = v
	return b.Clamp()
}

// Within reports whether Value lies inside the domain.
func (b BoundedMetric) Within() bool {
	return b.Min <= b.Value && b.Value <= b.Max
}

// DerivedRatio splits RatioWhole into an independent Share and the
// Remainder computed from it.
type DerivedRatio struct {
	Label     string   `json:"label"`
	Share     int64    `json:"share"`
	Remainder int64    `json:"remainder"`
	Risk      RiskTier `json:"risk,omitempty"`
}

// NewRatio builds a ratio whose remainder is derived from share.
func NewRatio(label string, share int64, risk RiskTier) DerivedRatio {
	return DerivedRatio{Label: label, Share: share, Remainder: RatioWhole - share, Risk: risk}
}

// PredictiveInterval is a forecast value with its confidence bounds.
type PredictiveInterval struct {
	Period     string `json:"period"`
	Predicted  int64  `json:"predicted"`
	LowerBound int64  `json:"lowerBound"`
	UpperBound int64  `json:"upperBound"`
}

// Point is one labelled observation of a time series.
type Point struct {
	Period string           `json:"period"`
	Values map[string]int64 `json:"values"`
}

func (p Point) clone() Point {
	values := make(map[string]int64, len(p.Values))
	for k, v := range p.Values {
		values[k] = v
	}
	return Point{Period: p.Period, Values: values}
}

// TimeSeries is a fixed rolling window: History is frozen and only Current
// takes part in simulation.
type TimeSeries struct {
	Fields  []string `json:"fields"`
	History []Point  `json:"history"`
	Current Point    `json:"current"`
}

// Points returns the series in chronological order.
func (t TimeSeries) Points() []Point {
	points := make([]Point, 0, len(t.History)+1)
	points = append(points, t.History...)
	return append(points, t.Current)
}

func (t TimeSeries) clone() TimeSeries {
	history := make([]Point, len(t.History))
	for i, p := range t.History {
		history[i] = p.clone()
	}
	return TimeSeries{
		Fields:  append([]string(nil), t.Fields...),
		History: history,
		Current: t.Current.clone(),
	}
}
