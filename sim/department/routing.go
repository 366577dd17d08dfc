package department

import (
	"fmt"

	"github.com/edsim/edsim/sim/trace"
)

// Routing reasons recorded in the decision trace.
const (
	ReasonMainRoute        = "main_route"
	ReasonFastQueueShorter = "fast_queue_shorter"
	ReasonMainQueueShorter = trace.ReasonShorterQueue
	ReasonNeedsLab         = "needs_lab"
	ReasonNeedsBed         = "needs_bed"
	ReasonDischarged       = "discharged"
)

// Destination is where a station sends a patient. A nil Station means discharge.
type Destination struct {
	Station *Station
	Reason  string
}

func discharge() Destination { return Destination{Reason: ReasonDischarged} }

// Router decides a patient's next station once service finishes.
type Router interface {
	Route(p *Patient) Destination
}

// to panics when the downstream station a rule needs was never wired.
func to(from StationName, st *Station, reason string) Destination {
	if st == nil {
		panic(fmt.Sprintf("station %s: routing (%s) to an undefined downstream station", from, reason))
	}
	return Destination{Station: st, Reason: reason}
}

// triageRouter sends main patients to main consultation, and fast patients to
// whichever consultation queue is shorter, preferring fast on a tie.
type triageRouter struct {
	fast, main *Station
}

func (r triageRouter) Route(p *Patient) Destination {
	if p.Route == RouteMain {
		return to(Triage, r.main, ReasonMainRoute)
	}
	fastLen, mainLen := r.queueLens()
	if fastLen <= mainLen {
		return to(Triage, r.fast, ReasonFastQueueShorter)
	}
	return to(Triage, r.main, ReasonMainQueueShorter)
}

// queueLens reports the advisory lengths the join-shorter-queue rule compares.
func (r triageRouter) queueLens() (fast, main int) {
	if r.fast != nil {
		fast = r.fast.QueueLen()
	}
	if r.main != nil {
		main = r.main.QueueLen()
	}
	return fast, main
}

type fastConsultRouter struct {
	lab *Station
}

func (r fastConsultRouter) Route(p *Patient) Destination {
	if p.NeedsLab {
		return to(FastConsultation, r.lab, ReasonNeedsLab)
	}
	return discharge()
}

type mainConsultRouter struct {
	lab, bed *Station
}

func (r mainConsultRouter) Route(p *Patient) Destination {
	switch {
	case p.NeedsLab:
		return to(MainConsultation, r.lab, ReasonNeedsLab)
	case p.NeedsBed:
		return to(MainConsultation, r.bed, ReasonNeedsBed)
	}
	return discharge()
}

type mainLabRouter struct {
	bed *Station
}

func (r mainLabRouter) Route(p *Patient) Destination {
	if p.NeedsBed {
		return to(MainLab, r.bed, ReasonNeedsBed)
	}
	return discharge()
}

// dischargeRouter ends the pathway: fast lab and bed assignment.
type dischargeRouter struct{}

func (dischargeRouter) Route(*Patient) Destination { return discharge() }
