package department

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/dist"
	"github.com/edsim/edsim/sim/trace"
)

// Station is one service point: a resource pool, a service-time sampler and
// a routing rule. Each admitted patient runs its own process through
// acquire → serve → release → route.
type Station struct {
	Name  StationName
	stage Stage

	dept    *Department
	pool    *sim.ResourcePool
	service dist.Sampler
	src     rand.Source
	router  Router

	// onAdmit runs before the patient queues; triage uses it to draw outcomes.
	onAdmit func(*Patient)

	// queueLen counts patients handed to this station and not yet finished
	// here. Advisory only: it feeds the join-shorter-queue rule.
	queueLen int
	admitted int
	finished int
}

func newStation(d *Department, name StationName, stage Stage, cfg StationParams, service dist.Sampler) *Station {
	return &Station{
		Name:    name,
		stage:   stage,
		dept:    d,
		pool:    sim.NewResourcePool(d.sim, string(name), cfg.Capacity, cfg.Discipline),
		service: service,
		src:     d.rng.ForSubsystem(sim.SubsystemStation(string(name))),
	}
}

// QueueLen returns the advisory count of patients at this station.
func (s *Station) QueueLen() int { return s.queueLen }

// Pool exposes the station's resource pool for inspection.
func (s *Station) Pool() *sim.ResourcePool { return s.pool }

// Admitted and Finished count patients that entered and left this station.
func (s *Station) Admitted() int { return s.admitted }
func (s *Station) Finished() int { return s.finished }

// Admit hands a patient to the station and starts its process. It returns
// immediately; the patient waits for a slot in logical time.
func (s *Station) Admit(p *Patient) {
	s.queueLen++
	s.admitted++
	if s.onAdmit != nil {
		s.onAdmit(p)
	}
	logrus.Debugf("[%.3f] patient %d queued at %s (priority %d, queue %d)",
		s.dept.sim.Now(), p.ID, s.Name, p.Priority, s.queueLen)

	priority := 0
	if s.pool.Discipline() == sim.Priority {
		priority = p.Priority
	}
	s.pool.Acquire(priority, func(g *sim.Grant) { s.serve(p, g) })
}

func (s *Station) serve(p *Patient, g *sim.Grant) {
	serviceStart := s.dept.sim.Now()
	d := s.service.Sample(s.src)
	s.dept.sim.Timeout(d, func() { s.finish(p, g, serviceStart) })
}

func (s *Station) finish(p *Patient, g *sim.Grant, serviceStart float64) {
	now := s.dept.sim.Now()
	s.pool.Release(g)
	p.complete(s.stage, serviceStart, now)
	s.queueLen--
	s.finished++
	logrus.Debugf("[%.3f] patient %d finished %s after waiting %.3f; utilisation %d/%d, %d waiting",
		now, p.ID, s.Name, p.Timing(s.stage).Wait, s.pool.InUse(), s.pool.Capacity(), s.pool.Waiting())

	// queue lengths are read after this station's decrement and before the
	// hand-off, so the rule sees the state the patient is joining
	var fastLen, mainLen int
	if tr, ok := s.router.(triageRouter); ok {
		fastLen, mainLen = tr.queueLens()
	}
	dest := s.router.Route(p)
	if tr := s.dept.trace; tr.Enabled() {
		rec := trace.RoutingRecord{
			PatientID:    p.ID,
			Run:          s.dept.run,
			Clock:        now,
			From:         string(s.Name),
			Reason:       dest.Reason,
			FastQueueLen: fastLen,
			MainQueueLen: mainLen,
		}
		if dest.Station != nil {
			rec.To = string(dest.Station.Name)
		}
		tr.RecordRouting(rec)
	}

	if dest.Station == nil {
		s.dept.discharge(p)
		return
	}
	dest.Station.Admit(p)
}

// StationStats is the end-of-run view of one station.
type StationStats struct {
	sim.PoolStats
	Admitted int `json:"admitted"`
	Finished int `json:"finished"`
	QueueLen int `json:"queue_len"`
}

// Stats snapshots the station.
func (s *Station) Stats() StationStats {
	return StationStats{
		PoolStats: s.pool.Stats(),
		Admitted:  s.admitted,
		Finished:  s.finished,
		QueueLen:  s.queueLen,
	}
}
