package department

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/edsim/edsim/sim/dist"
)

// Arrivals generates patients at sampled intervals and admits them to triage.
// It never stops on its own; the run's horizon abandons its next arrival.
type Arrivals struct {
	dept   *Department
	gap    dist.Sampler
	src    rand.Source
	triage *Station
	nextID int
}

// Start schedules the first arrival one sampled gap from now.
func (a *Arrivals) Start() {
	a.dept.sim.Timeout(a.gap.Sample(a.src), a.arrive)
}

// Created returns how many patients have arrived.
func (a *Arrivals) Created() int { return a.nextID }

func (a *Arrivals) arrive() {
	a.nextID++
	p := NewPatient(a.nextID, a.dept.sim.Now())
	logrus.Debugf("[%.3f] patient %d arrived", p.ArrivalTime, p.ID)
	a.triage.Admit(p)
	a.dept.sim.Timeout(a.gap.Sample(a.src), a.arrive)
}

// Assessor draws a patient's triage outcomes: priority, route, lab and bed.
// Everything is decided on admission to triage, before the patient is seen.
type Assessor struct {
	priorities dist.PriorityDistribution
	mainLab    dist.Bernoulli
	fastLab    dist.Bernoulli
	bed        dist.Bernoulli
	src        rand.Source
}

// NewAssessor validates the outcome probabilities.
func NewAssessor(p Params, src rand.Source) (*Assessor, error) {
	priorities, err := dist.NewPriorityDistribution(p.PriorityWeights)
	if err != nil {
		return nil, err
	}
	mainLab, err := dist.NewBernoulli(p.PMainLab)
	if err != nil {
		return nil, err
	}
	fastLab, err := dist.NewBernoulli(p.PFastLab)
	if err != nil {
		return nil, err
	}
	bed, err := dist.NewBernoulli(p.PED)
	if err != nil {
		return nil, err
	}
	return &Assessor{priorities: priorities, mainLab: mainLab, fastLab: fastLab, bed: bed, src: src}, nil
}

// Assess draws and stores the outcomes. Fast-track patients never need a bed.
func (a *Assessor) Assess(p *Patient) {
	priority := a.priorities.Sample(a.src)
	var needsLab, needsBed bool
	if RouteFor(priority) == RouteMain {
		needsLab = a.mainLab.Draw(a.src)
		needsBed = a.bed.Draw(a.src)
	} else {
		needsLab = a.fastLab.Draw(a.src)
	}
	p.assess(priority, needsLab, needsBed)
}
