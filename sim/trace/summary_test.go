package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalAssessments != 0 || summary.TotalRoutings != 0 {
		t.Error("expected 0 assessments and routings")
	}
	if summary.Overflows != 0 || summary.OverflowRatio != 0 {
		t.Error("expected no overflow")
	}
	if len(summary.TargetDistribution) != 0 {
		t.Error("expected empty target distribution")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary == nil || summary.TotalAssessments != 0 {
		t.Fatal("expected a zero summary for a nil trace")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed assessments
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordAssessment(AssessmentRecord{PatientID: 1, Route: "main", NeedsLab: true, NeedsBed: true})
	st.RecordAssessment(AssessmentRecord{PatientID: 2, Route: "fast"})
	st.RecordAssessment(AssessmentRecord{PatientID: 3, Route: "fast", NeedsLab: true})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalAssessments != 3 {
		t.Errorf("expected 3 assessments, got %d", summary.TotalAssessments)
	}
	if summary.MainRouted != 1 || summary.FastRouted != 2 {
		t.Errorf("expected 1 main and 2 fast, got %d and %d", summary.MainRouted, summary.FastRouted)
	}
	if summary.LabOrdered != 2 {
		t.Errorf("expected 2 lab orders, got %d", summary.LabOrdered)
	}
	if summary.BedsRequested != 1 {
		t.Errorf("expected 1 bed request, got %d", summary.BedsRequested)
	}
}

func TestSummarize_Overflow_RatioOverFastPatients(t *testing.T) {
	// GIVEN four fast patients, one of which overflowed to main consultation
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	for id := 1; id <= 4; id++ {
		st.RecordAssessment(AssessmentRecord{PatientID: id, Route: "fast"})
	}
	st.RecordRouting(RoutingRecord{PatientID: 1, From: "triage", To: "fast_consultation", Reason: "fast_queue_shorter"})
	st.RecordRouting(RoutingRecord{PatientID: 2, From: "triage", To: "main_consultation", Reason: ReasonShorterQueue})
	st.RecordRouting(RoutingRecord{PatientID: 3, From: "triage", To: "fast_consultation", Reason: "fast_queue_shorter"})
	st.RecordRouting(RoutingRecord{PatientID: 4, From: "triage", To: "fast_consultation", Reason: "fast_queue_shorter"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN one overflow out of four fast patients
	if summary.Overflows != 1 {
		t.Errorf("expected 1 overflow, got %d", summary.Overflows)
	}
	if summary.OverflowRatio != 0.25 {
		t.Errorf("expected overflow ratio 0.25, got %.4f", summary.OverflowRatio)
	}
}

func TestSummarize_TargetDistribution_ExcludesDischarges(t *testing.T) {
	// GIVEN routings to the same station and a discharge
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordRouting(RoutingRecord{PatientID: 1, From: "main_consultation", To: "main_lab"})
	st.RecordRouting(RoutingRecord{PatientID: 2, From: "main_consultation", To: "main_lab"})
	st.RecordRouting(RoutingRecord{PatientID: 3, From: "main_consultation", To: "bed_assignment"})
	st.RecordRouting(RoutingRecord{PatientID: 4, From: "fast_lab", Reason: "discharged"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN distribution reflects actual routing and discharges are counted apart
	if summary.TargetDistribution["main_lab"] != 2 {
		t.Errorf("expected 2 for main_lab, got %d", summary.TargetDistribution["main_lab"])
	}
	if summary.TargetDistribution["bed_assignment"] != 1 {
		t.Errorf("expected 1 for bed_assignment, got %d", summary.TargetDistribution["bed_assignment"])
	}
	if summary.Discharges != 1 {
		t.Errorf("expected 1 discharge, got %d", summary.Discharges)
	}
	if summary.TotalRoutings != 4 {
		t.Errorf("expected 4 routings, got %d", summary.TotalRoutings)
	}
}
