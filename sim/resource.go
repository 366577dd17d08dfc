package sim

import (
	"container/heap"
	"fmt"
)

// Discipline selects the order in which a ResourcePool serves its wait-list.
type Discipline string

const (
	// FIFO serves waiters in request order and ignores priorities.
	FIFO Discipline = "fifo"
	// Priority serves the smallest priority value first; ties go to the
	// earlier request.
	Priority Discipline = "priority"
)

var validDisciplines = map[Discipline]bool{
	FIFO:     true,
	Priority: true,
}

// IsValidDiscipline returns true if name is a recognized queueing discipline.
func IsValidDiscipline(name string) bool {
	return validDisciplines[Discipline(name)]
}

// Grant is one slot of a ResourcePool held by a process.
type Grant struct {
	pool        *ResourcePool
	seq         uint64
	held        bool
	Priority    int
	RequestedAt float64
	GrantedAt   float64
}

// Wait returns the time the request spent on the wait-list.
func (g *Grant) Wait() float64 {
	return g.GrantedAt - g.RequestedAt
}

// request is a pending Acquire call.
type request struct {
	grant  *Grant
	resume func(*Grant)
}

// waitList orders pending requests for one discipline.
type waitList struct {
	discipline Discipline
	items      []*request
}

func (w *waitList) Len() int { return len(w.items) }

func (w *waitList) Less(i, j int) bool {
	gi, gj := w.items[i].grant, w.items[j].grant
	if w.discipline == Priority && gi.Priority != gj.Priority {
		return gi.Priority < gj.Priority
	}
	return gi.seq < gj.seq
}

func (w *waitList) Swap(i, j int) { w.items[i], w.items[j] = w.items[j], w.items[i] }

func (w *waitList) Push(x any) { w.items = append(w.items, x.(*request)) }

func (w *waitList) Pop() any {
	old := w.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	w.items = old[:n-1]
	return item
}

// ResourcePool is a capacity-limited contention primitive. At most Capacity
// grants are held at any time; the rest wait in discipline order.
type ResourcePool struct {
	Name string

	sim        *Simulator
	capacity   int
	discipline Discipline
	holders    map[*Grant]struct{}
	waiting    *waitList
	nextSeq    uint64

	grants     uint64
	maxWaiting int
	busyArea   float64 // integral of holders over time
	lastChange float64
}

// NewResourcePool creates a pool bound to sim.
// Panics on capacity < 1 or an unknown discipline; callers validate configuration first.
func NewResourcePool(sim *Simulator, name string, capacity int, discipline Discipline) *ResourcePool {
	if sim == nil {
		panic("NewResourcePool: sim must not be nil")
	}
	if capacity < 1 {
		panic(fmt.Sprintf("NewResourcePool(%s): capacity must be >= 1, got %d", name, capacity))
	}
	if !validDisciplines[discipline] {
		panic(fmt.Sprintf("NewResourcePool(%s): unknown discipline %q", name, discipline))
	}
	return &ResourcePool{
		Name:       name,
		sim:        sim,
		capacity:   capacity,
		discipline: discipline,
		holders:    make(map[*Grant]struct{}, capacity),
		waiting:    &waitList{discipline: discipline},
		lastChange: sim.Clock,
	}
}

// Capacity returns the fixed number of slots.
func (p *ResourcePool) Capacity() int { return p.capacity }

// Discipline returns the wait-list ordering.
func (p *ResourcePool) Discipline() Discipline { return p.discipline }

// InUse returns the number of slots currently granted.
func (p *ResourcePool) InUse() int { return len(p.holders) }

// Waiting returns the number of pending requests.
func (p *ResourcePool) Waiting() int { return p.waiting.Len() }

// MaxWaiting returns the longest wait-list observed.
func (p *ResourcePool) MaxWaiting() int { return p.maxWaiting }

// Grants returns how many requests have been granted so far.
func (p *ResourcePool) Grants() uint64 { return p.grants }

// Acquire requests one slot. The process suspends until the slot is granted;
// resume then runs from a GrantEvent, in the current instant if a slot is free.
// FIFO pools ignore priority.
func (p *ResourcePool) Acquire(priority int, resume func(*Grant)) {
	if resume == nil {
		panic(fmt.Sprintf("Acquire(%s): resume must not be nil", p.Name))
	}
	p.nextSeq++
	g := &Grant{pool: p, seq: p.nextSeq, Priority: priority, RequestedAt: p.sim.Clock}
	if len(p.holders) < p.capacity && p.waiting.Len() == 0 {
		p.hold(g)
		p.sim.grant(g, resume)
		return
	}
	heap.Push(p.waiting, &request{grant: g, resume: resume})
	p.maxWaiting = max(p.maxWaiting, p.waiting.Len())
}

// Release returns g's slot and, if anyone is waiting, grants it to the next
// waiter in the same logical instant. Releasing a grant that is not held by
// this pool is a programming error and panics.
func (p *ResourcePool) Release(g *Grant) {
	if g == nil || g.pool != p || !g.held {
		panic(fmt.Sprintf("Release(%s): grant is not held by this pool", p.Name))
	}
	if _, ok := p.holders[g]; !ok {
		panic(fmt.Sprintf("Release(%s): grant missing from holder set", p.Name))
	}
	p.accumulate()
	delete(p.holders, g)
	g.held = false

	if p.waiting.Len() > 0 {
		next := heap.Pop(p.waiting).(*request)
		p.hold(next.grant)
		p.sim.grant(next.grant, next.resume)
	}
}

func (p *ResourcePool) hold(g *Grant) {
	p.accumulate()
	p.holders[g] = struct{}{}
	if len(p.holders) > p.capacity {
		panic(fmt.Sprintf("ResourcePool(%s): %d holders exceed capacity %d", p.Name, len(p.holders), p.capacity))
	}
	g.held = true
	g.GrantedAt = p.sim.Clock
	p.grants++
}

func (p *ResourcePool) accumulate() {
	now := p.sim.Clock
	p.busyArea += float64(len(p.holders)) * (now - p.lastChange)
	p.lastChange = now
}

// Utilization returns the time-averaged fraction of capacity in use since t=0.
func (p *ResourcePool) Utilization() float64 {
	now := p.sim.Clock
	if now <= 0 {
		return 0
	}
	area := p.busyArea + float64(len(p.holders))*(now-p.lastChange)
	return area / (float64(p.capacity) * now)
}

// PoolStats is a snapshot of a pool's bookkeeping.
type PoolStats struct {
	Name        string     `json:"name"`
	Discipline  Discipline `json:"discipline"`
	Capacity    int        `json:"capacity"`
	InUse       int        `json:"in_use"`
	Waiting     int        `json:"waiting"`
	MaxWaiting  int        `json:"max_waiting"`
	Grants      uint64     `json:"grants"`
	Utilization float64    `json:"utilization"`
}

// Stats returns a snapshot of the pool.
func (p *ResourcePool) Stats() PoolStats {
	return PoolStats{
		Name:        p.Name,
		Discipline:  p.discipline,
		Capacity:    p.capacity,
		InUse:       p.InUse(),
		Waiting:     p.Waiting(),
		MaxWaiting:  p.maxWaiting,
		Grants:      p.grants,
		Utilization: p.Utilization(),
	}
}
