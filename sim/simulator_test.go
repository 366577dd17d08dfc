package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulator_Timeout_AdvancesClock(t *testing.T) {
	// GIVEN a simulator with a long horizon
	s := NewSimulator(100)
	var firedAt []float64

	// WHEN two timeouts are scheduled out of order
	s.Timeout(7.5, func() { firedAt = append(firedAt, s.Now()) })
	s.Timeout(2.5, func() { firedAt = append(firedAt, s.Now()) })
	s.Run()

	// THEN they fire in time order at their trigger times
	assert.Equal(t, []float64{2.5, 7.5}, firedAt)
	assert.Equal(t, 100.0, s.Clock, "clock finishes at the horizon")
	assert.Equal(t, uint64(2), s.Executed())
}

func TestSimulator_SameInstant_FIFOTieBreak(t *testing.T) {
	s := NewSimulator(10)
	var order []string
	s.Timeout(1, func() { order = append(order, "a") })
	s.Timeout(1, func() { order = append(order, "b") })
	s.Timeout(1, func() { order = append(order, "c") })
	s.Run()
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSimulator_ZeroTimeout_RunsAfterAlreadyScheduledSameInstant(t *testing.T) {
	s := NewSimulator(10)
	var order []string
	s.Timeout(1, func() {
		order = append(order, "first")
		s.Timeout(0, func() { order = append(order, "nested") })
	})
	s.Timeout(1, func() { order = append(order, "second") })
	s.Run()
	assert.Equal(t, []string{"first", "second", "nested"}, order)
}

func TestSimulator_Run_StopsBeforeHorizon_AbandonsRest(t *testing.T) {
	// GIVEN a self-perpetuating process with period 3
	s := NewSimulator(10)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		s.Timeout(3, tick)
	}
	s.Timeout(0, tick)

	// WHEN the simulation runs to t=10
	s.Run()

	// THEN ticks at 0,3,6,9 ran; the tick at 12 was abandoned
	assert.Equal(t, 4, ticks)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, 10.0, s.Now())
}

func TestSimulator_Run_EventAtHorizonNotExecuted(t *testing.T) {
	s := NewSimulator(5)
	fired := false
	s.Timeout(5, func() { fired = true })
	s.Run()
	assert.False(t, fired)
}

func TestSimulator_Timeout_PanicsOnInvalidDelay(t *testing.T) {
	s := NewSimulator(5)
	assert.Panics(t, func() { s.Timeout(-1, func() {}) })
	assert.Panics(t, func() { s.Timeout(math.NaN(), func() {}) })
	assert.Panics(t, func() { s.Timeout(1, nil) })
}

func TestNewSimulator_PanicsOnInvalidHorizon(t *testing.T) {
	assert.Panics(t, func() { NewSimulator(-1) })
	assert.Panics(t, func() { NewSimulator(math.NaN()) })
}

func TestSimulator_InfiniteHorizon_DrainsQueue(t *testing.T) {
	s := NewSimulator(math.Inf(1))
	s.Timeout(42, func() {})
	s.Run()
	assert.Equal(t, 42.0, s.Now())
	assert.Equal(t, 0, s.Pending())
}
