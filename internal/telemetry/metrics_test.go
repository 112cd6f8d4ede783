package telemetry

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/finpulse/internal/scheduler"
	"github.com/iwvelando/finpulse/internal/snapshot"
)

func TestCollectorImplementsObserver(t *testing.T) {
	var _ scheduler.Observer = NewCollector(prometheus.NewRegistry())
}

func TestCycleMetrics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	published := snapshot.Seed()
	published.Sequence = 7

	c.StateChanged(scheduler.Recomputing)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.State))

	c.CycleStarted(scheduler.TriggerManual)
	c.CycleCompleted(scheduler.TriggerManual, published, 1500*time.Millisecond)
	c.CycleStarted(scheduler.TriggerTimer)
	c.CycleAbandoned(scheduler.TriggerTimer)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Cycles.WithLabelValues("manual", "started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Cycles.WithLabelValues("manual", "published")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Cycles.WithLabelValues("timer", "abandoned")))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.Sequence))
	assert.Equal(t, 1, testutil.CollectAndCount(c.CycleDuration))
}

func TestObserveHeadline(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.Observe(snapshot.Seed())
	c.Observe(nil)

	assert.Equal(t, 42.0, testutil.ToFloat64(c.Headline.WithLabelValues("tax", "total_flags")))
	assert.Equal(t, 1250000.0, testutil.ToFloat64(c.Headline.WithLabelValues("tax", "exposure_amount")))
	assert.Equal(t, 1400000.0, testutil.ToFloat64(c.Headline.WithLabelValues("revenue", "deferred_revenue")))
	assert.Equal(t, 98.0, testutil.ToFloat64(c.Headline.WithLabelValues("leases", "active_leases")))
}

func TestRecordRefreshExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRefresh(RefreshAccepted)
	c.RecordRefresh(RefreshBusy)
	c.RecordRefresh(RefreshBusy)

	expected := `
# HELP finpulse_refresh_requests_total Manual refresh requests by result
# TYPE finpulse_refresh_requests_total counter
finpulse_refresh_requests_total{result="accepted"} 1
finpulse_refresh_requests_total{result="busy"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "finpulse_refresh_requests_total"))
}
