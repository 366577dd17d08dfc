package department

import (
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/dist"
)

// StationName identifies one of the six stations.
type StationName string

const (
	Triage           StationName = "triage"
	FastConsultation StationName = "fast_consultation"
	MainConsultation StationName = "main_consultation"
	FastLab          StationName = "fast_lab"
	MainLab          StationName = "main_lab"
	BedAssignment    StationName = "bed_assignment"
)

// StationNames lists every station in pathway order.
var StationNames = []StationName{Triage, FastConsultation, MainConsultation, FastLab, MainLab, BedAssignment}

// StationParams configures one station's pool and service time.
type StationParams struct {
	Capacity   int            `yaml:"capacity"`
	Discipline sim.Discipline `yaml:"discipline"`
	Service    dist.DistSpec  `yaml:"service"`
}

// Params is the read-only parameter object for a batch of replications.
// Times are in minutes.
type Params struct {
	WarmUp           float64   `yaml:"warm_up"`
	SimDuration      float64   `yaml:"sim_duration"`
	Runs             int       `yaml:"runs"`
	Seed             int64     `yaml:"seed"`
	MeanInterarrival float64   `yaml:"mean_interarrival"`
	PriorityWeights  []float64 `yaml:"priority_weights"`
	PMainLab         float64   `yaml:"p_main_lab"`
	PFastLab         float64   `yaml:"p_fast_lab"`
	PED              float64   `yaml:"p_ed"`

	Triage           StationParams `yaml:"triage"`
	FastConsultation StationParams `yaml:"fast_consultation"`
	MainConsultation StationParams `yaml:"main_consultation"`
	FastLab          StationParams `yaml:"fast_lab"`
	MainLab          StationParams `yaml:"main_lab"`
	BedAssignment    StationParams `yaml:"bed_assignment"`
}

// DefaultParams returns the baseline department: one triage nurse, two main
// doctors, a single fast-track doctor, and an eight hour observed shift after
// a two hour warm-up.
func DefaultParams() Params {
	return Params{
		WarmUp:           120,
		SimDuration:      480,
		Runs:             250,
		Seed:             42,
		MeanInterarrival: 5,
		PriorityWeights:  append([]float64(nil), dist.DefaultPriorityWeights...),
		PMainLab:         0.4,
		PFastLab:         0.1,
		PED:              0.2,

		Triage:           StationParams{Capacity: 1, Discipline: sim.FIFO, Service: dist.LognormalSpec(10, 5)},
		FastConsultation: StationParams{Capacity: 1, Discipline: sim.FIFO, Service: dist.LognormalSpec(20, 7)},
		MainConsultation: StationParams{Capacity: 2, Discipline: sim.Priority, Service: dist.LognormalSpec(30, 10)},
		FastLab:          StationParams{Capacity: 1, Discipline: sim.FIFO, Service: dist.LognormalSpec(10, 3)},
		MainLab:          StationParams{Capacity: 2, Discipline: sim.Priority, Service: dist.LognormalSpec(30, 10)},
		BedAssignment:    StationParams{Capacity: 1, Discipline: sim.Priority, Service: dist.ExponentialSpec(90)},
	}
}

// Horizon is the stop time of a replication.
func (p Params) Horizon() float64 { return p.WarmUp + p.SimDuration }

// Station returns a pointer to the named station's parameters, or nil.
func (p *Params) Station(name StationName) *StationParams {
	switch name {
	case Triage:
		return &p.Triage
	case FastConsultation:
		return &p.FastConsultation
	case MainConsultation:
		return &p.MainConsultation
	case FastLab:
		return &p.FastLab
	case MainLab:
		return &p.MainLab
	case BedAssignment:
		return &p.BedAssignment
	}
	return nil
}

// Clone returns a deep copy so overrides never alias the original.
func (p Params) Clone() Params {
	c := p
	c.PriorityWeights = append([]float64(nil), p.PriorityWeights...)
	for _, name := range StationNames {
		st := c.Station(name)
		st.Service.Params = maps.Clone(st.Service.Params)
	}
	return c
}

// Validate reports every configuration fault found, joined.
func (p Params) Validate() error {
	var errs []error
	if math.IsNaN(p.WarmUp) || math.IsInf(p.WarmUp, 0) || p.WarmUp < 0 {
		errs = append(errs, fmt.Errorf("warm_up must be a finite non-negative number, got %v", p.WarmUp))
	}
	if math.IsNaN(p.SimDuration) || math.IsInf(p.SimDuration, 0) || p.SimDuration <= 0 {
		errs = append(errs, fmt.Errorf("sim_duration must be a finite positive number, got %v", p.SimDuration))
	}
	if p.Runs < 1 {
		errs = append(errs, fmt.Errorf("runs must be >= 1, got %d", p.Runs))
	}
	if _, err := dist.NewExponential(p.MeanInterarrival); err != nil {
		errs = append(errs, fmt.Errorf("mean_interarrival: %w", err))
	}
	if err := dist.ValidateWeights(p.PriorityWeights); err != nil {
		errs = append(errs, fmt.Errorf("priority_weights: %w", err))
	}
	for _, prob := range []struct {
		name string
		p    float64
	}{{"p_main_lab", p.PMainLab}, {"p_fast_lab", p.PFastLab}, {"p_ed", p.PED}} {
		if err := dist.ValidateProbability(prob.name, prob.p); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range StationNames {
		st := p.Station(name)
		if st.Capacity < 1 {
			errs = append(errs, fmt.Errorf("%s: capacity must be >= 1, got %d", name, st.Capacity))
		}
		if !sim.IsValidDiscipline(string(st.Discipline)) {
			errs = append(errs, fmt.Errorf("%s: unknown discipline %q (want fifo or priority)", name, st.Discipline))
		}
		if _, err := dist.NewSampler(st.Service); err != nil {
			errs = append(errs, fmt.Errorf("%s: service: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// TriageLoad is the offered load on triage: arrival rate times mean triage
// time over capacity. At or above 1 the triage queue grows without bound.
func (p Params) TriageLoad() float64 {
	s, err := dist.NewSampler(p.Triage.Service)
	if err != nil || p.MeanInterarrival <= 0 || p.Triage.Capacity < 1 {
		return math.NaN()
	}
	return s.Mean() / p.MeanInterarrival / float64(p.Triage.Capacity)
}
