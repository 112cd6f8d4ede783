// Package telemetry exposes simulator activity as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iwvelando/finpulse/internal/scheduler"
	"github.com/iwvelando/finpulse/internal/snapshot"
)

const namespace = "finpulse"

// Refresh request outcomes.
const (
	RefreshAccepted = "accepted"
	RefreshBusy     = "busy"
	RefreshLimited  = "limited"
)

// Collector holds every finpulse metric. It implements scheduler.Observer.
type Collector struct {
	// Cycle metrics
	Cycles        *prometheus.CounterVec
	CycleDuration *prometheus.HistogramVec

	// Scheduler metrics
	State    prometheus.Gauge
	Sequence prometheus.Gauge

	// Dashboard headline figures of the last published snapshot
	Headline *prometheus.GaugeVec

	// HTTP surface metrics
	RefreshRequests *prometheus.CounterVec
	StreamClients   prometheus.Gauge
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Simulation cycles by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),

		CycleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Time from cycle start to publish, including simulated latency",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 1.5, 2, 5, 10},
			},
			[]string{"trigger"},
		),

		State: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "scheduler_state",
				Help:      "Scheduler state (0=idle, 1=recomputing, 2=stopped)",
			},
		),

		Sequence: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_sequence",
				Help:      "Sequence number of the last published snapshot",
			},
		),

		Headline: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dashboard_value",
				Help:      "Headline figures of the last published snapshot",
			},
			[]string{"dashboard", "metric"},
		),

		RefreshRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refresh_requests_total",
				Help:      "Manual refresh requests by result",
			},
			[]string{"result"},
		),

		StreamClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stream_clients",
				Help:      "Connected snapshot stream clients",
			},
		),
	}

	reg.MustRegister(
		c.Cycles,
		c.CycleDuration,
		c.State,
		c.Sequence,
		c.Headline,
		c.RefreshRequests,
		c.StreamClients,
	)

	return c
}

// StateChanged records the scheduler state.
func (c *Collector) StateChanged(state scheduler.State) {
	c.State.Set(float64(state))
}

// CycleStarted counts a started cycle.
func (c *Collector) CycleStarted(trigger scheduler.Trigger) {
	c.Cycles.WithLabelValues(string(trigger), "started").Inc()
}

// CycleCompleted records a published cycle and its snapshot.
func (c *Collector) CycleCompleted(trigger scheduler.Trigger, published *snapshot.Snapshot, elapsed time.Duration) {
	c.Cycles.WithLabelValues(string(trigger), "published").Inc()
	c.CycleDuration.WithLabelValues(string(trigger)).Observe(elapsed.Seconds())
	c.Observe(published)
}

// CycleAbandoned counts a cycle discarded by disposal.
func (c *Collector) CycleAbandoned(trigger scheduler.Trigger) {
	c.Cycles.WithLabelValues(string(trigger), "abandoned").Inc()
}

// Observe sets the snapshot gauges.
func (c *Collector) Observe(s *snapshot.Snapshot) {
	if s == nil {
		return
	}
	c.Sequence.Set(float64(s.Sequence))

	tax := s.Tax.Summary
	c.headline(snapshot.DashboardTax, "total_flags", tax.TotalFlags)
	c.headline(snapshot.DashboardTax, "critical_issues", tax.CriticalIssues)
	c.headline(snapshot.DashboardTax, "high_risk_flags", tax.HighRiskFlags)
	c.headline(snapshot.DashboardTax, "medium_risk_flags", tax.MediumRiskFlags)
	c.headline(snapshot.DashboardTax, "low_risk_flags", tax.LowRiskFlags)
	c.headline(snapshot.DashboardTax, "exposure_amount", tax.ExposureAmount)
	c.headline(snapshot.DashboardTax, "flagged_transactions", tax.FlaggedTransactions)

	rev := s.Revenue.Summary
	c.headline(snapshot.DashboardRevenue, "total_revenue", rev.TotalRevenue)
	c.headline(snapshot.DashboardRevenue, "recognized_revenue", rev.RecognizedRevenue)
	c.headline(snapshot.DashboardRevenue, "deferred_revenue", rev.DeferredRevenue)
	c.headline(snapshot.DashboardRevenue, "pending_review", rev.PendingReview)

	lease := s.Leases.Summary
	c.headline(snapshot.DashboardLeases, "total_leases", lease.TotalLeases)
	c.headline(snapshot.DashboardLeases, "active_leases", lease.ActiveLeases)
	c.headline(snapshot.DashboardLeases, "expiring_leases", lease.ExpiringLeases)
	c.headline(snapshot.DashboardLeases, "total_liability", lease.TotalLiability)
}

func (c *Collector) headline(d snapshot.Dashboard, metric string, v int64) {
	c.Headline.WithLabelValues(string(d), metric).Set(float64(v))
}

// RecordRefresh counts a manual refresh request by result.
func (c *Collector) RecordRefresh(result string) {
	c.RefreshRequests.WithLabelValues(result).Inc()
}
