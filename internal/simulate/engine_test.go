package simulate

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	testclock "k8s.io/utils/clock/testing"

	"github.com/iwvelando/finpulse/internal/jitter"
	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/testutil"
)

func TestNextPreservesInvariants(t *testing.T) {
	seeds := []int64{1, 7, 42, 1234}

	for _, seed := range seeds {
		engine := NewEngine(jitter.NewSource(seed), DefaultProfile(), nil)
		current := snapshot.Seed()
		for cycle := 1; cycle <= 500; cycle++ {
			current = engine.Next(current)
			if err := snapshot.Check(current); err != nil {
				t.Fatalf("seed %d cycle %d: invariant violated: %v", seed, cycle, err)
			}
		}
		assert.Equal(t, uint64(500), current.Sequence)
	}
}

func TestNextExtremeDrawsPreserveInvariants(t *testing.T) {
	draws := []float64{
		testutil.DrawFor(1), testutil.DrawFor(-1), testutil.DrawFor(1),
		testutil.DrawFor(-1), testutil.DrawFor(-1), testutil.DrawFor(1), 0.5,
	}
	engine := NewEngine(testutil.NewSequenceSource(draws...), DefaultProfile(), nil)

	current := snapshot.Seed()
	for cycle := 0; cycle < 200; cycle++ {
		current = engine.Next(current)
		require.NoError(t, snapshot.Check(current), "cycle %d", cycle)
	}
}

func TestNextDoesNotModifyPrevious(t *testing.T) {
	engine := NewEngine(jitter.NewSource(3), DefaultProfile(), nil)
	prev := snapshot.Seed()
	before := prev.Clone()

	next := engine.Next(prev)

	assert.True(t, reflect.DeepEqual(before, prev), "Next must not modify its input")
	assert.NotSame(t, prev, next)
	assert.Equal(t, prev.Sequence+1, next.Sequence)
	assert.NotEqual(t, prev.ID, next.ID)
}

func TestNextFreezesHistory(t *testing.T) {
	engine := NewEngine(jitter.NewSource(11), DefaultProfile(), nil)
	seed := snapshot.Seed()

	current := seed
	for i := 0; i < 25; i++ {
		current = engine.Next(current)
	}

	assert.Equal(t, seed.Tax.Timeline.History, current.Tax.Timeline.History)
	assert.Equal(t, seed.Tax.MonthlyTrend.History, current.Tax.MonthlyTrend.History)
	assert.Equal(t, seed.Revenue.Timeline.History, current.Revenue.Timeline.History)
	assert.Equal(t, seed.Leases.LiabilityTimeline.History, current.Leases.LiabilityTimeline.History)
	assert.Equal(t, seed.Tax.RecentFlags, current.Tax.RecentFlags, "catalog records are static")
}

func TestNextStampsClockTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(testutil.ConstantSource(0.5), DefaultProfile(), testclock.NewFakePassiveClock(now))

	next := engine.Next(nil)
	assert.Equal(t, now, next.GeneratedAt)
	assert.Equal(t, uint64(1), next.Sequence)
}

func TestNextMidpointDrawsKeepSeedValues(t *testing.T) {
	engine := NewEngine(testutil.ConstantSource(0.5), DefaultProfile(), nil)
	seed := snapshot.Seed()

	next := engine.Next(seed)
	assert.Equal(t, seed.Tax, next.Tax)
	assert.Equal(t, seed.Revenue, next.Revenue)
	assert.Equal(t, seed.Leases, next.Leases)
}

func TestNextSkipsFrozenDashboards(t *testing.T) {
	profile := DefaultProfile()
	profile.Live = []snapshot.Dashboard{snapshot.DashboardTax}
	engine := NewEngine(testutil.ConstantSource(testutil.DrawFor(1)), profile, nil)
	seed := snapshot.Seed()

	next := engine.Next(seed)
	assert.Equal(t, seed.Revenue, next.Revenue)
	assert.Equal(t, seed.Leases, next.Leases)
	assert.NotEqual(t, seed.Tax.Summary, next.Tax.Summary)
}

func TestNextRepairsRiskTiers(t *testing.T) {
	// totalFlags up, critical unchanged, high up, medium down, low up.
	src := testutil.NewSequenceSource(
		testutil.DrawFor(1),
		0.5,
		testutil.DrawFor(1),
		testutil.DrawFor(-1),
		testutil.DrawFor(1),
		0.5,
	)
	profile := DefaultProfile()
	profile.Live = []snapshot.Dashboard{snapshot.DashboardTax}
	engine := NewEngine(src, profile, nil)

	next := engine.Next(snapshot.Seed())
	s := next.Tax.Summary

	assert.Equal(t, int64(44), s.TotalFlags)
	assert.Equal(t, int64(16), s.HighRiskFlags)
	assert.Equal(t, int64(9), s.LowRiskFlags)
	assert.Equal(t, int64(19), s.MediumRiskFlags, "medium absorbs the difference")
}

func TestDefaultProfileValid(t *testing.T) {
	profile := DefaultProfile()
	require.NoError(t, profile.Validate())
	for _, d := range snapshot.Dashboards {
		assert.True(t, profile.IsLive(d), "%s should be live by default", d)
	}
}

func TestProfileValidateReportsEveryProblem(t *testing.T) {
	profile := DefaultProfile()
	profile.Tax.TotalFlags = -0.1
	profile.Leases.Locations = 0.9
	profile.Live = append(profile.Live, "payroll")

	err := profile.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Contains(t, err.Error(), "tax.totalFlags")
	assert.Contains(t, err.Error(), "leases.locations")
	assert.Contains(t, err.Error(), "payroll")
}
