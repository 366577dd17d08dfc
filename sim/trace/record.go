// Package trace provides decision-trace recording for patient-flow analysis.
// This package has no dependencies on sim/ or sim/department/; it stores pure data types.
package trace

// AssessmentRecord captures the outcomes drawn for one patient at triage.
type AssessmentRecord struct {
	PatientID int
	Run       int
	Clock     float64
	Priority  int
	Route     string // "main" or "fast"
	NeedsLab  bool
	NeedsBed  bool
}

// RoutingRecord captures where a station sent a patient once service finished.
// To is empty when the patient was discharged.
type RoutingRecord struct {
	PatientID int
	Run       int
	Clock     float64
	From      string
	To        string
	Reason    string
	// Advisory queue lengths seen by the join-shorter-queue rule. Zero for
	// stations that do not compare queues.
	FastQueueLen int
	MainQueueLen int
}

// Discharged reports whether the record ends the patient's pathway.
func (r RoutingRecord) Discharged() bool { return r.To == "" }
