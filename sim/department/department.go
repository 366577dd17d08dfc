// Package department models patient flow through an emergency department on
// top of the sim engine. A Department wires six stations into a fixed
// pathway (triage, consultation, lab, bed), feeds them with an arrival
// process and hands every discharged patient to a Sink.
//
// Each Department is one replication with its own clock and random streams.
// RunReplications runs many of them in parallel against a shared Sink.
package department

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/dist"
	"github.com/edsim/edsim/sim/trace"
)

// Sink receives one record per discharged patient. Implementations shared
// between parallel replications must be safe for concurrent use.
type Sink interface {
	Append(Record)
}

// Option customizes a Department before its network is built.
type Option func(*Department)

// WithTrace records assessments and routing decisions into tr.
func WithTrace(tr *trace.SimulationTrace) Option {
	return func(d *Department) { d.trace = tr }
}

// WithServiceSampler replaces the configured service time of one station.
// The sampler is used as given; stateful samplers must not be shared between
// replications, so build them through PerRun when running several.
func WithServiceSampler(name StationName, s dist.Sampler) Option {
	return func(d *Department) { d.serviceOverrides[name] = s }
}

// WithInterarrival replaces the exponential inter-arrival sampler. The same
// sharing rule as WithServiceSampler applies.
func WithInterarrival(s dist.Sampler) Option {
	return func(d *Department) { d.interarrival = s }
}

// WithAssessment replaces the random triage assessment. fn must set outcomes
// through AssessAs.
func WithAssessment(fn func(*Patient)) Option {
	return func(d *Department) { d.assess = fn }
}

// PerRun builds the options of each replication from its run index, so every
// replication gets its own sampler instances.
func PerRun(fn func(run int) []Option) Option {
	return func(d *Department) {
		for _, opt := range fn(d.run) {
			opt(d)
		}
	}
}

// AssessAs stores fixed triage outcomes on a patient.
func AssessAs(p *Patient, priority int, needsLab, needsBed bool) {
	p.assess(priority, needsLab, needsBed)
}

// Department is one replication of the emergency department.
type Department struct {
	params Params
	run    int
	sim    *sim.Simulator
	rng    *sim.PartitionedRNG
	sink   Sink
	trace  *trace.SimulationTrace

	stations map[StationName]*Station
	arrivals *Arrivals
	assess   func(*Patient)

	serviceOverrides map[StationName]dist.Sampler
	interarrival     dist.Sampler

	discharged int
	started    bool
}

// New validates params and builds a fresh network for replication run.
// Configuration faults are returned before anything is scheduled.
func New(params Params, run int, sink Sink, opts ...Option) (*Department, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if sink == nil {
		return nil, errors.New("department: nil sink")
	}
	d := &Department{
		params:           params.Clone(),
		run:              run,
		sim:              sim.NewSimulator(params.Horizon()),
		rng:              sim.NewPartitionedRNG(sim.ReplicationKey(params.Seed, run)),
		sink:             sink,
		stations:         make(map[StationName]*Station, len(StationNames)),
		serviceOverrides: make(map[StationName]dist.Sampler),
	}
	for _, opt := range opts {
		opt(d)
	}

	// leaf-first so every router is built with its downstream stations
	bed, err := d.addStation(BedAssignment, StageBed, dischargeRouter{})
	if err != nil {
		return nil, err
	}
	fastLab, err := d.addStation(FastLab, StageLab, dischargeRouter{})
	if err != nil {
		return nil, err
	}
	mainLab, err := d.addStation(MainLab, StageLab, mainLabRouter{bed: bed})
	if err != nil {
		return nil, err
	}
	fastConsult, err := d.addStation(FastConsultation, StageConsult, fastConsultRouter{lab: fastLab})
	if err != nil {
		return nil, err
	}
	mainConsult, err := d.addStation(MainConsultation, StageConsult, mainConsultRouter{lab: mainLab, bed: bed})
	if err != nil {
		return nil, err
	}
	triage, err := d.addStation(Triage, StageTriage, triageRouter{fast: fastConsult, main: mainConsult})
	if err != nil {
		return nil, err
	}

	if d.assess == nil {
		a, err := NewAssessor(d.params, d.rng.ForSubsystem(sim.SubsystemTriage))
		if err != nil {
			return nil, err
		}
		d.assess = a.Assess
	}
	triage.onAdmit = d.assessOnArrival

	if d.interarrival == nil {
		gap, err := dist.NewExponential(d.params.MeanInterarrival)
		if err != nil {
			return nil, err
		}
		d.interarrival = gap
	}
	d.arrivals = &Arrivals{
		dept:   d,
		gap:    d.interarrival,
		src:    d.rng.ForSubsystem(sim.SubsystemArrivals),
		triage: triage,
	}
	return d, nil
}

func (d *Department) addStation(name StationName, stage Stage, router Router) (*Station, error) {
	cfg := *d.params.Station(name)
	service, ok := d.serviceOverrides[name]
	if !ok {
		var err error
		if service, err = dist.NewSampler(cfg.Service); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	st := newStation(d, name, stage, cfg, service)
	st.router = router
	d.stations[name] = st
	return st, nil
}

func (d *Department) assessOnArrival(p *Patient) {
	d.assess(p)
	if !p.Assessed() {
		panic(fmt.Sprintf("patient %d left assessment without outcomes", p.ID))
	}
	if d.trace.Enabled() {
		d.trace.RecordAssessment(trace.AssessmentRecord{
			PatientID: p.ID,
			Run:       d.run,
			Clock:     d.sim.Now(),
			Priority:  p.Priority,
			Route:     string(p.Route),
			NeedsLab:  p.NeedsLab,
			NeedsBed:  p.NeedsBed,
		})
	}
}

func (d *Department) discharge(p *Patient) {
	p.discharge(d.sim.Now())
	d.discharged++
	logrus.Debugf("[%.3f] patient %d discharged after %.3f", p.DischargedAt, p.ID, p.TimeInSystem())
	d.sink.Append(p.Record(d.run))
}

// Station returns the named station, or nil.
func (d *Department) Station(name StationName) *Station { return d.stations[name] }

// Simulator exposes the replication's clock.
func (d *Department) Simulator() *sim.Simulator { return d.sim }

// RunID returns the replication index.
func (d *Department) RunID() int { return d.run }

// RunStats summarizes one finished replication.
type RunStats struct {
	Run        int                          `json:"run"`
	Arrivals   int                          `json:"arrivals"`
	Discharged int                          `json:"discharged"`
	InFlight   int                          `json:"in_flight"`
	Events     uint64                       `json:"events"`
	Stations   map[StationName]StationStats `json:"stations"`
}

// Run drives the replication to WarmUp + SimDuration. Patients still in the
// department at that point are abandoned. A Department runs once.
func (d *Department) Run() RunStats {
	if d.started {
		panic(fmt.Sprintf("department run %d started twice", d.run))
	}
	d.started = true

	d.arrivals.Start()
	d.sim.Run()

	stats := RunStats{
		Run:        d.run,
		Arrivals:   d.arrivals.Created(),
		Discharged: d.discharged,
		InFlight:   d.arrivals.Created() - d.discharged,
		Events:     d.sim.Executed(),
		Stations:   make(map[StationName]StationStats, len(d.stations)),
	}
	for name, st := range d.stations {
		stats.Stations[name] = st.Stats()
	}
	logrus.Infof("Replication %d: %d arrivals, %d discharged, %d in flight at t=%.1f",
		d.run, stats.Arrivals, stats.Discharged, stats.InFlight, d.sim.Now())
	return stats
}
