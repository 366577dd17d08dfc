// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds the logical clock and the event loop.
// It is not safe for concurrent use: one replication owns one Simulator.
type Simulator struct {
	// Clock is the current logical time in minutes. It only moves forward.
	Clock float64
	// Horizon is the stop time. Events at or after the horizon are never executed.
	Horizon float64
	// EventQueue holds all pending timeout and grant events.
	EventQueue *EventHeap

	nextSeq  uint64 // per-simulator counter for deterministic tie-breaking
	executed uint64
}

// NewSimulator creates a simulator whose run loop stops at horizon.
// Panics if horizon is negative or NaN.
func NewSimulator(horizon float64) *Simulator {
	if math.IsNaN(horizon) || horizon < 0 {
		panic(fmt.Sprintf("NewSimulator: horizon must be a non-negative number, got %v", horizon))
	}
	return &Simulator{
		Clock:      0,
		Horizon:    horizon,
		EventQueue: NewEventHeap(),
	}
}

// Now returns the current logical time.
func (sim *Simulator) Now() float64 {
	return sim.Clock
}

// Executed returns how many events the run loop has processed.
func (sim *Simulator) Executed() uint64 {
	return sim.executed
}

// Pending returns the number of events still scheduled.
func (sim *Simulator) Pending() int {
	return sim.EventQueue.Len()
}

// schedule stamps ev with the next sequence number and pushes it.
func (sim *Simulator) schedule(ev *baseEvent, full Event) {
	sim.nextSeq++
	ev.setSeq(sim.nextSeq)
	sim.EventQueue.Schedule(full)
}

// Timeout suspends the calling process for delay minutes; resume runs when
// the clock reaches Clock+delay. A zero delay resumes later in the same instant,
// after every event already scheduled for it.
func (sim *Simulator) Timeout(delay float64, resume func()) {
	if math.IsNaN(delay) || delay < 0 {
		panic(fmt.Sprintf("Timeout: delay must be a non-negative number, got %v", delay))
	}
	if resume == nil {
		panic("Timeout: resume must not be nil")
	}
	ev := &TimeoutEvent{baseEvent: baseEvent{time: sim.Clock + delay}, resume: resume}
	sim.schedule(&ev.baseEvent, ev)
}

// grant schedules the resumption of a pool waiter in the current instant.
func (sim *Simulator) grant(g *Grant, resume func(*Grant)) {
	ev := &GrantEvent{baseEvent: baseEvent{time: sim.Clock}, Grant: g, resume: resume}
	sim.schedule(&ev.baseEvent, ev)
}

// Run pops events in (timestamp, sequence) order until the next event would
// fire at or after the horizon, or none are left. Processes still suspended at
// that point are abandoned, not drained. The clock finishes at the horizon.
func (sim *Simulator) Run() {
	for sim.EventQueue.Len() > 0 {
		if sim.EventQueue.Peek().Timestamp() >= sim.Horizon {
			break
		}
		ev := sim.EventQueue.PopNext()
		if ev.Timestamp() < sim.Clock {
			panic(fmt.Sprintf("Clock went backwards: %v < %v", ev.Timestamp(), sim.Clock))
		}
		sim.Clock = ev.Timestamp()
		logrus.Tracef("[t=%10.3f] Executing %T #%d", sim.Clock, ev, ev.Seq())
		ev.Execute(sim)
		sim.executed++
	}
	if !math.IsInf(sim.Horizon, 1) {
		sim.Clock = sim.Horizon
	}
	logrus.Debugf("[t=%10.3f] Simulation ended after %d events, %d abandoned", sim.Clock, sim.executed, sim.EventQueue.Len())
}
