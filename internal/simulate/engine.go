// Package simulate builds successive snapshots: each cycle clones the
// previous snapshot, jitters the live dashboards and repairs their
// invariants.
package simulate

import (
	"sync"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/iwvelando/finpulse/internal/jitter"
	"github.com/iwvelando/finpulse/internal/repair"
	"github.com/iwvelando/finpulse/internal/snapshot"
)

// Engine runs the clone, jitter and repair pipeline. It is safe for
// concurrent use; draws from the source are serialized.
type Engine struct {
	mu      sync.Mutex
	src     jitter.Source
	profile Profile
	clock   clock.PassiveClock
}

// NewEngine creates an engine. A nil clock uses the wall clock.
func NewEngine(src jitter.Source, profile Profile, clk clock.PassiveClock) *Engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Engine{src: src, profile: profile, clock: clk}
}

// Profile returns the variation profile in use.
func (e *Engine) Profile() Profile {
	return e.profile
}

// Next produces the snapshot following prev. prev is never modified. A nil
// prev starts from the seed.
func (e *Engine) Next(prev *snapshot.Snapshot) *snapshot.Snapshot {
	if prev == nil {
		prev = snapshot.Seed()
	}
	next := prev.Clone()
	next.Sequence = prev.Sequence + 1
	next.ID = uuid.NewString()
	next.GeneratedAt = e.clock.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.profile.IsLive(snapshot.DashboardTax) {
		e.tax(&next.Tax)
	}
	if e.profile.IsLive(snapshot.DashboardRevenue) {
		e.revenue(&next.Revenue)
	}
	if e.profile.IsLive(snapshot.DashboardLeases) {
		e.leases(&next.Leases)
	}
	return next
}

func (e *Engine) tax(t *snapshot.TaxDashboard) {
	v := e.profile.Tax
	src := e.src

	s := &t.Summary
	s.TotalFlags = jitter.Vary(src, s.TotalFlags, v.TotalFlags)
	s.CriticalIssues = jitter.Vary(src, s.CriticalIssues, v.CriticalIssues)
	s.HighRiskFlags = jitter.Vary(src, s.HighRiskFlags, v.RiskTiers)
	s.MediumRiskFlags = jitter.Vary(src, s.MediumRiskFlags, v.RiskTiers)
	s.LowRiskFlags = jitter.Vary(src, s.LowRiskFlags, v.RiskTiers)
	s.ExposureAmount = jitter.Vary(src, s.ExposureAmount, v.Exposure)
	s.FlaggedTransactions = jitter.Vary(src, s.FlaggedTransactions, v.FlaggedTransactions)
	repair.RiskTiers(s)
	repair.Transactions(s)

	jitter.Categories(src, t.RiskByCategory, v.Categories)
	jitter.Current(src, &t.Timeline, map[string]float64{
		snapshot.FieldFlags:    v.TimelineFlags,
		snapshot.FieldExposure: v.TimelineExposure,
	})

	for i := range t.Materiality {
		m := &t.Materiality[i]
		m.Likelihood = jitter.Bounded(src, m.Likelihood, v.MaterialityAxes)
		m.Materiality = jitter.Bounded(src, m.Materiality, v.MaterialityAxes)
		m.Weight = jitter.Floor(src, m.Weight, snapshot.MinWeight, v.MaterialityWeight)
	}

	jitter.Categories(src, t.SupplierRisk, v.SupplierDistribution)
	jitter.Categories(src, t.SectorRisk, v.Sectors)

	for i := range t.Mitigation {
		m := &t.Mitigation[i]
		m.Current = jitter.Bounded(src, m.Current, v.Mitigation)
		repair.Mitigation(m)
	}

	for i := range t.ExposureProbability {
		p := &t.ExposureProbability[i]
		p.Probability = jitter.Bounded(src, p.Probability, v.Probability)
		p.Mitigation = jitter.Bounded(src, p.Mitigation, v.ProbabilityMitigation)
	}

	for i := range t.Forecast {
		f := &t.Forecast[i]
		f.Predicted = jitter.Vary(src, f.Predicted, v.Predicted)
		f.LowerBound = jitter.Vary(src, f.LowerBound, v.Bounds)
		f.UpperBound = jitter.Vary(src, f.UpperBound, v.Bounds)
		repair.Interval(f)
	}

	for i := range t.TopSuppliers {
		sup := &t.TopSuppliers[i]
		sup.Risk = jitter.Bounded(src, sup.Risk, v.SupplierRisk)
		sup.Transactions = jitter.Vary(src, sup.Transactions, v.SupplierVolume)
		sup.Amount = jitter.Vary(src, sup.Amount, v.SupplierVolume)
	}

	for i := range t.VatAnalysis {
		r := &t.VatAnalysis[i]
		r.Share = jitter.Vary(src, r.Share, v.VAT)
		repair.Ratio(r)
	}

	for i := range t.RiskReduction {
		r := &t.RiskReduction[i]
		r.Current = jitter.Vary(src, r.Current, v.ReductionCurrent)
		r.Potential = jitter.Vary(src, r.Potential, v.ReductionPotential)
		r.Savings = jitter.Vary(src, r.Savings, v.Savings)
		repair.Reduction(r)
	}

	jitter.Current(src, &t.MonthlyTrend, uniform(t.MonthlyTrend.Fields, v.Trend))
}

func (e *Engine) revenue(r *snapshot.RevenueDashboard) {
	v := e.profile.Revenue
	src := e.src

	s := &r.Summary
	s.TotalRevenue = jitter.Vary(src, s.TotalRevenue, v.Total)
	s.RecognizedRevenue = jitter.Vary(src, s.RecognizedRevenue, v.Recognized)
	s.ContractsCount = jitter.Vary(src, s.ContractsCount, v.Contracts)
	s.PendingReview = jitter.Vary(src, s.PendingReview, v.Pending)
	repair.RevenueSummary(s)

	jitter.Categories(src, r.RevenueByType, v.ByType)
	jitter.Current(src, &r.Timeline, uniform(r.Timeline.Fields, v.Timeline))

	r.Compliance.Share = jitter.Vary(src, r.Compliance.Share, v.Compliance)
	repair.Ratio(&r.Compliance)
	r.Obligations.Share = jitter.Vary(src, r.Obligations.Share, v.Compliance)
	repair.Ratio(&r.Obligations)
}

func (e *Engine) leases(l *snapshot.LeaseDashboard) {
	v := e.profile.Leases
	src := e.src

	s := &l.Summary
	s.TotalLeases = jitter.Vary(src, s.TotalLeases, v.Total)
	s.ActiveLeases = jitter.Vary(src, s.ActiveLeases, v.Active)
	s.ExpiringLeases = jitter.Vary(src, s.ExpiringLeases, v.Expiring)
	s.TotalLiability = jitter.Vary(src, s.TotalLiability, v.Balances)
	s.TotalAssets = jitter.Vary(src, s.TotalAssets, v.Balances)
	repair.LeaseSummary(s)

	jitter.Categories(src, l.ByType, v.ByType)

	l.Classification.Share = jitter.Vary(src, l.Classification.Share, v.Classification)
	repair.Ratio(&l.Classification)

	jitter.Current(src, &l.LiabilityTimeline, uniform(l.LiabilityTimeline.Fields, v.Timeline))

	for i := range l.Compliance {
		l.Compliance[i].Score = jitter.Bounded(src, l.Compliance[i].Score, v.Compliance)
	}

	jitter.Categories(src, l.ByLocation, v.Locations)
	repair.Shares(l.ByLocation)
}

func uniform(fields []string, fraction float64) map[string]float64 {
	out := make(map[string]float64, len(fields))
	for _, f := range fields {
		out[f] = fraction
	}
	return out
}
