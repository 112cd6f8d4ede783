// Package testutil provides deterministic random sources and tolerance
// checks for tests.
package testutil

import (
	"math"
	"sync"
)

// SequenceSource replays a fixed list of draws, wrapping around when it
// reaches the end. It is safe for concurrent use.
type SequenceSource struct {
	mu    sync.Mutex
	draws []float64
	next  int
	calls int
}

// NewSequenceSource returns a source that yields draws in order.
func NewSequenceSource(draws ...float64) *SequenceSource {
	if len(draws) == 0 {
		draws = []float64{0.5}
	}
	return &SequenceSource{draws: draws}
}

// Float64 returns the next draw.
func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.draws[s.next]
	s.next = (s.next + 1) % len(s.draws)
	s.calls++
	return v
}

// Calls reports how many draws have been consumed.
func (s *SequenceSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ConstantSource always yields the same draw. 0.5 means "no variation",
// values near 0 push to the lower extreme and values near 1 to the upper.
type ConstantSource float64

// Float64 returns the constant draw.
func (c ConstantSource) Float64() float64 {
	return float64(c)
}

// DrawFor returns the uniform draw that makes Vary move a value by the given
// signed share of its maximum deviation (-1 lowest, 0 unchanged, 1 highest).
func DrawFor(share float64) float64 {
	return (share + 1) / 2
}

// WithinFraction reports whether got deviates from base by at most
// fraction*base, allowing one unit for rounding.
func WithinFraction(base, got int64, fraction float64) bool {
	limit := fraction*math.Abs(float64(base)) + 1
	return math.Abs(float64(got-base)) <= limit
}
