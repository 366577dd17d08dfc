// Package testutil provides shared test infrastructure for the department
// simulator. It consolidates scripted samplers and assertion helpers used
// across sim/ test packages.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"
)

// Sequence is a scripted sampler that replays fixed values in order and then
// repeats the last one. It satisfies dist.Sampler so tests can pin service
// times and inter-arrival gaps.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence returns a sampler that yields values in order.
// It panics when no values are given.
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		panic("testutil.NewSequence: at least one value required")
	}
	return &Sequence{values: append([]float64(nil), values...)}
}

// Fixed returns a sampler that always yields v.
func Fixed(v float64) *Sequence { return NewSequence(v) }

// Sample ignores src and returns the next scripted value.
func (s *Sequence) Sample(rand.Source) float64 {
	v := s.values[min(s.next, len(s.values)-1)]
	s.next++
	return v
}

// Mean returns the arithmetic mean of the script.
func (s *Sequence) Mean() float64 {
	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values))
}

// Draws reports how many values have been sampled.
func (s *Sequence) Draws() int { return s.next }

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
