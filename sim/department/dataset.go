package department

import (
	"cmp"
	"slices"
	"sync"
)

// Dataset is an in-memory Sink safe for concurrent replications.
type Dataset struct {
	mu      sync.Mutex
	records []Record
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset { return &Dataset{} }

// Append adds one discharged patient's record.
func (ds *Dataset) Append(r Record) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.records = append(ds.records, r)
}

// Len returns the number of records.
func (ds *Dataset) Len() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return len(ds.records)
}

// Records returns a copy sorted by run, then patient id.
func (ds *Dataset) Records() []Record {
	ds.mu.Lock()
	out := slices.Clone(ds.records)
	ds.mu.Unlock()
	slices.SortFunc(out, func(a, b Record) int {
		if c := cmp.Compare(a.Run, b.Run); c != 0 {
			return c
		}
		return cmp.Compare(a.PatientID, b.PatientID)
	})
	return out
}
