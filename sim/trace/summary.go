package trace

// ReasonShorterQueue is the routing reason recorded when a fast-track patient
// leaves triage for the main consultation queue because it was shorter.
const ReasonShorterQueue = "main_queue_shorter"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAssessments   int
	MainRouted         int
	FastRouted         int
	LabOrdered         int
	BedsRequested      int
	TotalRoutings      int
	Discharges         int
	Overflows          int            // fast-track patients sent to main consultation
	OverflowRatio      float64        // Overflows / FastRouted; 0 when no fast patients
	TargetDistribution map[string]int // destination station → count of routings
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	summary.TotalAssessments = len(st.Assessments)
	for _, a := range st.Assessments {
		switch a.Route {
		case "main":
			summary.MainRouted++
		case "fast":
			summary.FastRouted++
		}
		if a.NeedsLab {
			summary.LabOrdered++
		}
		if a.NeedsBed {
			summary.BedsRequested++
		}
	}

	summary.TotalRoutings = len(st.Routings)
	for _, r := range st.Routings {
		if r.Discharged() {
			summary.Discharges++
			continue
		}
		summary.TargetDistribution[r.To]++
		if r.Reason == ReasonShorterQueue {
			summary.Overflows++
		}
	}
	if summary.FastRouted > 0 {
		summary.OverflowRatio = float64(summary.Overflows) / float64(summary.FastRouted)
	}

	return summary
}
