package sim

// Event defines the interface for all simulation events.
// Each event has a Timestamp (logical minutes), a Seq assigned by the
// Simulator when it was scheduled, and an Execute method that resumes the
// single process waiting on it.
type Event interface {
	Timestamp() float64
	Seq() uint64
	Execute(*Simulator)
}

// baseEvent provides the ordering fields shared by all events.
type baseEvent struct {
	time float64
	seq  uint64
}

func (e *baseEvent) Timestamp() float64 {
	return e.time
}

func (e *baseEvent) Seq() uint64 {
	return e.seq
}

func (e *baseEvent) setSeq(seq uint64) {
	e.seq = seq
}

// TimeoutEvent resumes a process after it has waited out a sampled duration.
type TimeoutEvent struct {
	baseEvent
	resume func()
}

// Execute resumes the suspended process.
func (e *TimeoutEvent) Execute(_ *Simulator) {
	e.resume()
}

// GrantEvent resumes a process whose ResourcePool request has been granted.
type GrantEvent struct {
	baseEvent
	Grant  *Grant
	resume func(*Grant)
}

// Execute hands the grant to the waiting process.
func (e *GrantEvent) Execute(_ *Simulator) {
	e.resume(e.Grant)
}
