package snapshot

import (
	"fmt"

	"go.uber.org/multierr"
)

// Check verifies every cross-field invariant of the model and returns all
// violations combined. A nil result means the snapshot is publishable.
func Check(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("nil snapshot")
	}
	var c checker
	c.tax(&s.Tax)
	c.revenue(&s.Revenue)
	c.leases(&s.Leases)
	return c.err
}

type checker struct {
	err error
}

func (c *checker) failf(format string, args ...interface{}) {
	c.err = multierr.Append(c.err, fmt.Errorf(format, args...))
}

func (c *checker) nonNegative(field string, v int64) {
	if v < 0 {
		c.failf("%s is negative: %d", field, v)
	}
}

func (c *checker) bounded(field string, b BoundedMetric) {
	if !b.Within() {
		c.failf("%s=%d outside [%d, %d]", field, b.Value, b.Min, b.Max)
	}
}

func (c *checker) categories(section string, items []CategoryItem) {
	for _, item := range items {
		c.nonNegative(section+"."+item.Label, item.Value)
	}
}

func (c *checker) ratio(field string, r DerivedRatio) {
	if r.Share < 0 || r.Share > RatioWhole {
		c.failf("%s share %d outside [0, %d]", field, r.Share, RatioWhole)
	}
	if r.Share+r.Remainder != RatioWhole {
		c.failf("%s share %d + remainder %d != %d", field, r.Share, r.Remainder, RatioWhole)
	}
}

func (c *checker) series(section string, t TimeSeries) {
	for _, p := range t.Points() {
		for _, f := range t.Fields {
			v, ok := p.Values[f]
			if !ok {
				c.failf("%s.%s missing field %s", section, p.Period, f)
				continue
			}
			c.nonNegative(section+"."+p.Period+"."+f, v)
		}
	}
}

func (c *checker) tax(t *TaxDashboard) {
	s := t.Summary
	for field, v := range map[string]int64{
		"tax.summary.totalFlags":          s.TotalFlags,
		"tax.summary.criticalIssues":      s.CriticalIssues,
		"tax.summary.highRiskFlags":       s.HighRiskFlags,
		"tax.summary.mediumRiskFlags":     s.MediumRiskFlags,
		"tax.summary.lowRiskFlags":        s.LowRiskFlags,
		"tax.summary.exposureAmount":      s.ExposureAmount,
		"tax.summary.flaggedTransactions": s.FlaggedTransactions,
		"tax.summary.totalTransactions":   s.TotalTransactions,
	} {
		c.nonNegative(field, v)
	}
	if sum := s.HighRiskFlags + s.MediumRiskFlags + s.LowRiskFlags; sum != s.TotalFlags {
		c.failf("tax.summary risk tiers sum to %d, total is %d", sum, s.TotalFlags)
	}
	if s.FlaggedTransactions > s.TotalTransactions {
		c.failf("tax.summary flagged transactions %d exceed total %d", s.FlaggedTransactions, s.TotalTransactions)
	}

	c.categories("tax.riskByCategory", t.RiskByCategory)
	c.categories("tax.supplierRisk", t.SupplierRisk)
	c.categories("tax.sectorRisk", t.SectorRisk)
	c.series("tax.timeline", t.Timeline)
	c.series("tax.monthlyTrend", t.MonthlyTrend)

	for _, m := range t.Materiality {
		c.bounded("tax.materiality."+m.Name+".likelihood", m.Likelihood)
		c.bounded("tax.materiality."+m.Name+".materiality", m.Materiality)
		if m.Weight < MinWeight {
			c.failf("tax.materiality.%s weight %d below %d", m.Name, m.Weight, MinWeight)
		}
	}
	for _, m := range t.Mitigation {
		c.bounded("tax.mitigation."+m.Name, m.Current)
		if m.Current.Max != m.Target {
			c.failf("tax.mitigation.%s bound %d differs from target %d", m.Name, m.Current.Max, m.Target)
		}
	}
	for _, e := range t.ExposureProbability {
		c.bounded("tax.exposureProbability."+e.Name+".probability", e.Probability)
		c.bounded("tax.exposureProbability."+e.Name+".mitigation", e.Mitigation)
		c.nonNegative("tax.exposureProbability."+e.Name+".impact", e.Impact)
	}
	for _, f := range t.Forecast {
		c.nonNegative("tax.forecast."+f.Period+".lowerBound", f.LowerBound)
		if f.LowerBound > f.Predicted || f.Predicted > f.UpperBound {
			c.failf("tax.forecast.%s ordering violated: %d <= %d <= %d", f.Period, f.LowerBound, f.Predicted, f.UpperBound)
		}
	}
	for _, sup := range t.TopSuppliers {
		c.bounded("tax.topSuppliers."+sup.Name+".risk", sup.Risk)
		c.nonNegative("tax.topSuppliers."+sup.Name+".transactions", sup.Transactions)
		c.nonNegative("tax.topSuppliers."+sup.Name+".amount", sup.Amount)
	}
	for _, r := range t.VatAnalysis {
		c.ratio("tax.vatAnalysis."+r.Label, r)
	}
	for _, r := range t.RiskReduction {
		c.nonNegative("tax.riskReduction."+r.Category+".potential", r.Potential)
		c.nonNegative("tax.riskReduction."+r.Category+".savings", r.Savings)
		if r.Potential > r.Current {
			c.failf("tax.riskReduction.%s potential %d exceeds current %d", r.Category, r.Potential, r.Current)
		}
	}
}

func (c *checker) revenue(r *RevenueDashboard) {
	s := r.Summary
	c.nonNegative("revenue.summary.recognizedRevenue", s.RecognizedRevenue)
	c.nonNegative("revenue.summary.deferredRevenue", s.DeferredRevenue)
	c.nonNegative("revenue.summary.pendingReview", s.PendingReview)
	if s.RecognizedRevenue+s.DeferredRevenue != s.TotalRevenue {
		c.failf("revenue.summary recognized %d + deferred %d != total %d", s.RecognizedRevenue, s.DeferredRevenue, s.TotalRevenue)
	}
	if s.PendingReview > s.ContractsCount {
		c.failf("revenue.summary pending review %d exceeds contracts %d", s.PendingReview, s.ContractsCount)
	}
	c.categories("revenue.revenueByType", r.RevenueByType)
	c.series("revenue.timeline", r.Timeline)
	c.ratio("revenue.compliance", r.Compliance)
	c.ratio("revenue.obligations", r.Obligations)
}

func (c *checker) leases(l *LeaseDashboard) {
	s := l.Summary
	c.nonNegative("leases.summary.expiringLeases", s.ExpiringLeases)
	c.nonNegative("leases.summary.totalLiability", s.TotalLiability)
	c.nonNegative("leases.summary.totalAssets", s.TotalAssets)
	if s.ActiveLeases < 0 || s.ActiveLeases > s.TotalLeases {
		c.failf("leases.summary active %d outside [0, %d]", s.ActiveLeases, s.TotalLeases)
	}
	if s.ActiveLeases+s.ExpiringLeases > s.TotalLeases {
		c.failf("leases.summary active %d + expiring %d exceed total %d", s.ActiveLeases, s.ExpiringLeases, s.TotalLeases)
	}
	c.categories("leases.byType", l.ByType)
	c.ratio("leases.classification", l.Classification)
	c.series("leases.liabilityTimeline", l.LiabilityTimeline)
	for _, cs := range l.Compliance {
		c.bounded("leases.compliance."+cs.Name, cs.Score)
	}
	c.categories("leases.byLocation", l.ByLocation)
	var shares int64
	for _, item := range l.ByLocation {
		shares += item.Value
	}
	if len(l.ByLocation) > 0 && shares != RatioWhole {
		c.failf("leases.byLocation shares sum to %d, expected %d", shares, RatioWhole)
	}
}
