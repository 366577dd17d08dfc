package department

import (
	"fmt"
	"math"
)

// Route is the consultation pathway assigned at triage.
type Route string

const (
	RouteMain Route = "main"
	RouteFast Route = "fast"
)

// fastTrackMinPriority is the lowest priority value (least urgent end of the
// scale) that is sent down the fast track.
const fastTrackMinPriority = 3

// RouteFor maps a triage priority to its pathway: 1 and 2 go to main
// consultation, 3 and above go fast track.
func RouteFor(priority int) Route {
	if priority >= fastTrackMinPriority {
		return RouteFast
	}
	return RouteMain
}

// Stage identifies one of the four recorded steps of a pathway. The two
// consultation stations share StageConsult, and the two labs share StageLab.
type Stage int

const (
	StageTriage Stage = iota
	StageConsult
	StageLab
	StageBed
	numStages
)

var stageNames = [numStages]string{"triage", "consult", "lab", "bed"}

func (s Stage) String() string {
	if s < 0 || s >= numStages {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageTiming is the wait and completion time of one visited stage.
type StageTiming struct {
	Wait       float64
	FinishedAt float64
	Done       bool
}

// Patient models a single patient's flow through the department.
// Outcomes are drawn once at triage; each stage timing is written once.
type Patient struct {
	ID          int
	ArrivalTime float64

	Priority int
	Route    Route
	NeedsLab bool
	NeedsBed bool
	assessed bool

	timings      [numStages]StageTiming
	lastFinished float64

	DischargedAt float64
	discharged   bool
}

// NewPatient creates a patient arriving at the given instant.
func NewPatient(id int, arrival float64) *Patient {
	return &Patient{ID: id, ArrivalTime: arrival, lastFinished: arrival, DischargedAt: math.NaN()}
}

// Assessed reports whether triage outcomes have been drawn.
func (p *Patient) Assessed() bool { return p.assessed }

// Timing returns the recorded timing of a stage; Done is false if unvisited.
func (p *Patient) Timing(stage Stage) StageTiming { return p.timings[stage] }

// Discharged reports whether the patient has left the department.
func (p *Patient) Discharged() bool { return p.discharged }

// TimeInSystem is the discharge time minus the arrival time, or NaN while the
// patient is still in the department.
func (p *Patient) TimeInSystem() float64 {
	if !p.discharged {
		return math.NaN()
	}
	return p.DischargedAt - p.ArrivalTime
}

// assess stores triage outcomes. Panics on a second assessment.
func (p *Patient) assess(priority int, needsLab, needsBed bool) {
	if p.assessed {
		panic(fmt.Sprintf("patient %d assessed twice", p.ID))
	}
	p.Priority = priority
	p.Route = RouteFor(priority)
	p.NeedsLab = needsLab
	p.NeedsBed = needsBed
	p.assessed = true
}

// complete records a finished stage. The wait runs from the end of the
// previous stage (or arrival) to the instant service began.
func (p *Patient) complete(stage Stage, serviceStart, now float64) {
	if p.timings[stage].Done {
		panic(fmt.Sprintf("patient %d: %s timing written twice", p.ID, stage))
	}
	p.timings[stage] = StageTiming{
		Wait:       serviceStart - p.lastFinished,
		FinishedAt: now,
		Done:       true,
	}
	p.lastFinished = now
}

func (p *Patient) discharge(now float64) {
	if p.discharged {
		panic(fmt.Sprintf("patient %d discharged twice", p.ID))
	}
	p.DischargedAt = now
	p.discharged = true
}

// Record snapshots the patient for the dataset.
func (p *Patient) Record(run int) Record {
	return Record{
		Run:          run,
		PatientID:    p.ID,
		ArrivalTime:  p.ArrivalTime,
		Priority:     p.Priority,
		Route:        p.Route,
		NeedsLab:     p.NeedsLab,
		NeedsBed:     p.NeedsBed,
		Triage:       p.timings[StageTriage],
		Consult:      p.timings[StageConsult],
		Lab:          p.timings[StageLab],
		Bed:          p.timings[StageBed],
		DischargedAt: p.DischargedAt,
	}
}

func (p *Patient) String() string {
	return fmt.Sprintf("Patient: (ID: %d, Priority: %d, Route: %s, Arrival: %.3f)", p.ID, p.Priority, p.Route, p.ArrivalTime)
}

// Record is one discharged patient's row in the dataset.
type Record struct {
	Run          int
	PatientID    int
	ArrivalTime  float64
	Priority     int
	Route        Route
	NeedsLab     bool
	NeedsBed     bool
	Triage       StageTiming
	Consult      StageTiming
	Lab          StageTiming
	Bed          StageTiming
	DischargedAt float64
}

// TimeInSystem is the discharge time minus the arrival time.
func (r Record) TimeInSystem() float64 { return r.DischargedAt - r.ArrivalTime }

// Stage returns the timing for one stage of the record.
func (r Record) Stage(s Stage) StageTiming {
	switch s {
	case StageTriage:
		return r.Triage
	case StageConsult:
		return r.Consult
	case StageLab:
		return r.Lab
	case StageBed:
		return r.Bed
	}
	panic(fmt.Sprintf("unknown stage %d", int(s)))
}
