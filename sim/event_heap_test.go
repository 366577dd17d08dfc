package sim

import (
	"testing"
)

func newTestEvent(time float64, seq uint64) *TimeoutEvent {
	return &TimeoutEvent{baseEvent: baseEvent{time: time, seq: seq}, resume: func() {}}
}

// TestEventHeap_TimestampOrdering tests that events are processed in timestamp order
func TestEventHeap_TimestampOrdering(t *testing.T) {
	h := NewEventHeap()

	h.Schedule(newTestEvent(100, 1))
	h.Schedule(newTestEvent(50, 2))
	h.Schedule(newTestEvent(150, 3))

	want := []float64{50, 100, 150}
	for i, w := range want {
		got := h.PopNext()
		if got.Timestamp() != w {
			t.Errorf("event %d timestamp = %v, want %v", i, got.Timestamp(), w)
		}
	}
	if h.Len() != 0 {
		t.Errorf("Heap should be empty, len = %d", h.Len())
	}
}

// TestEventHeap_SeqOrdering tests same-timestamp events resolve by scheduling sequence
func TestEventHeap_SeqOrdering(t *testing.T) {
	h := NewEventHeap()

	e1 := newTestEvent(100, 1)
	e2 := newTestEvent(100, 2)
	e3 := newTestEvent(100, 3)

	// Add in non-increasing order
	h.Schedule(e3)
	h.Schedule(e1)
	h.Schedule(e2)

	for i, want := range []Event{e1, e2, e3} {
		if got := h.PopNext(); got != want {
			t.Errorf("position %d: got seq %d, want seq %d", i, got.Seq(), want.Seq())
		}
	}
}

// TestEventHeap_DeterministicOrdering tests that ordering does not depend on insertion order
func TestEventHeap_DeterministicOrdering(t *testing.T) {
	events := []Event{
		newTestEvent(5, 4), newTestEvent(2, 7), newTestEvent(5, 1),
		newTestEvent(0, 9), newTestEvent(2, 3), newTestEvent(5, 2),
	}

	h1 := NewEventHeap()
	for _, e := range events {
		h1.Schedule(e)
	}
	h2 := NewEventHeap()
	for i := len(events) - 1; i >= 0; i-- {
		h2.Schedule(events[i])
	}

	for h1.Len() > 0 {
		a, b := h1.PopNext(), h2.PopNext()
		if a != b {
			t.Fatalf("order differs: (%v,#%d) vs (%v,#%d)", a.Timestamp(), a.Seq(), b.Timestamp(), b.Seq())
		}
	}
}

func TestEventHeap_EmptyPeekAndPop(t *testing.T) {
	h := NewEventHeap()
	if h.Peek() != nil {
		t.Error("Peek on empty heap should return nil")
	}
	if h.PopNext() != nil {
		t.Error("PopNext on empty heap should return nil")
	}
}
