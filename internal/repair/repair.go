// Package repair restores cross-field invariants after jitter. Every
// function is deterministic and works in place on a freshly cloned record.
package repair

import (
	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/mathutil"
)

// Rebalance makes values sum to total by assigning the difference to
// values[absorber]. When the absorber would go negative it is set to 0 and
// the remaining deficit is taken from the other entries, last to first.
// A negative total is treated as 0.
func Rebalance(values []int64, total int64, absorber int) {
	if len(values) == 0 || absorber < 0 || absorber >= len(values) {
		return
	}
	total = mathutil.NonNegative(total)
	for i := range values {
		values[i] = mathutil.NonNegative(values[i])
	}

	others := mathutil.Sum(values...) - values[absorber]
	values[absorber] = total - others
	if values[absorber] >= 0 {
		return
	}

	deficit := -values[absorber]
	values[absorber] = 0
	for i := len(values) - 1; i >= 0 && deficit > 0; i-- {
		if i == absorber {
			continue
		}
		take := mathutil.Min(values[i], deficit)
		values[i] -= take
		deficit -= take
	}
}

// RiskTiers restores high + medium + low == total. Medium absorbs the
// difference.
func RiskTiers(s *snapshot.TaxSummary) {
	tiers := []int64{s.HighRiskFlags, s.MediumRiskFlags, s.LowRiskFlags}
	Rebalance(tiers, s.TotalFlags, 1)
	s.HighRiskFlags, s.MediumRiskFlags, s.LowRiskFlags = tiers[0], tiers[1], tiers[2]
}

// Transactions caps flagged transactions at the total.
func Transactions(s *snapshot.TaxSummary) {
	s.FlaggedTransactions = mathutil.Clamp(s.FlaggedTransactions, 0, s.TotalTransactions)
}

// Interval restores lower <= predicted <= upper by widening the bounds.
func Interval(p *snapshot.PredictiveInterval) {
	p.LowerBound = mathutil.Min(p.LowerBound, p.Predicted)
	p.UpperBound = mathutil.Max(p.UpperBound, p.Predicted)
}

// Ratio clamps the share into [0, RatioWhole] and recomputes the remainder.
func Ratio(r *snapshot.DerivedRatio) {
	r.Share = mathutil.Clamp(r.Share, 0, snapshot.RatioWhole)
	r.Remainder = snapshot.RatioWhole - r.Share
}

// Reduction keeps the achievable potential at or below the current score.
func Reduction(r *snapshot.RiskReduction) {
	r.Potential = mathutil.Clamp(r.Potential, 0, r.Current)
}

// Mitigation re-anchors the current score domain to the target.
func Mitigation(m *snapshot.MitigationScore) {
	m.Current.Min = 0
	m.Current.Max = m.Target
	m.Current = m.Current.Clamp()
}

// RevenueSummary derives deferred revenue and caps contracts pending review.
func RevenueSummary(s *snapshot.RevenueSummary) {
	s.RecognizedRevenue = mathutil.Clamp(s.RecognizedRevenue, 0, s.TotalRevenue)
	s.DeferredRevenue = s.TotalRevenue - s.RecognizedRevenue
	s.PendingReview = mathutil.Clamp(s.PendingReview, 0, s.ContractsCount)
}

// LeaseSummary keeps active and expiring leases within the portfolio.
func LeaseSummary(s *snapshot.LeaseSummary) {
	s.ActiveLeases = mathutil.Clamp(s.ActiveLeases, 0, s.TotalLeases)
	s.ExpiringLeases = mathutil.Clamp(s.ExpiringLeases, 0, s.TotalLeases-s.ActiveLeases)
}

// Shares rebalances percentage shares to RatioWhole with the last item
// absorbing the difference.
func Shares(items []snapshot.CategoryItem) {
	if len(items) == 0 {
		return
	}
	values := make([]int64, len(items))
	for i, item := range items {
		values[i] = item.Value
	}
	Rebalance(values, snapshot.RatioWhole, len(values)-1)
	for i := range items {
		items[i].Value = values[i]
	}
}
