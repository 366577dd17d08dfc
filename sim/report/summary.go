package report

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/edsim/edsim/sim/department"
)

// Distribution describes a sample of durations in minutes.
type Distribution struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// Describe computes the distribution of values. Empty input yields zeros and
// a single value has zero spread.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	x := slices.Clone(values)
	slices.Sort(x)
	d := Distribution{
		Count: len(x),
		Mean:  stat.Mean(x, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, x, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, x, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, x, nil),
		Max:   x[len(x)-1],
	}
	if len(x) > 1 {
		d.StdDev = stat.StdDev(x, nil)
	}
	return d
}

// StageSummary is the queueing delay observed at one stage.
type StageSummary struct {
	Stage string       `json:"stage"`
	Wait  Distribution `json:"wait"`
}

// Summary aggregates a dataset across every run it contains.
type Summary struct {
	Patients     int            `json:"patients"`
	Runs         int            `json:"runs"`
	MainRoute    int            `json:"main_route"`
	FastRoute    int            `json:"fast_route"`
	NeedsLab     int            `json:"needs_lab"`
	NeedsBed     int            `json:"needs_bed"`
	ByPriority   map[int]int    `json:"by_priority"`
	Stages       []StageSummary `json:"stages"`
	TimeInSystem Distribution   `json:"time_in_system"`
}

var summaryStages = []department.Stage{
	department.StageTriage, department.StageConsult, department.StageLab, department.StageBed,
}

// Summarize computes per-stage wait statistics and pathway counts.
func Summarize(records []department.Record) Summary {
	s := Summary{Patients: len(records), ByPriority: make(map[int]int)}
	runs := make(map[int]struct{})
	waits := make([][]float64, len(summaryStages))
	tis := make([]float64, 0, len(records))

	for _, r := range records {
		runs[r.Run] = struct{}{}
		s.ByPriority[r.Priority]++
		switch r.Route {
		case department.RouteMain:
			s.MainRoute++
		case department.RouteFast:
			s.FastRoute++
		}
		if r.NeedsLab {
			s.NeedsLab++
		}
		if r.NeedsBed {
			s.NeedsBed++
		}
		for i, stage := range summaryStages {
			if st := r.Stage(stage); st.Done {
				waits[i] = append(waits[i], st.Wait)
			}
		}
		tis = append(tis, r.TimeInSystem())
	}

	s.Runs = len(runs)
	for i, stage := range summaryStages {
		s.Stages = append(s.Stages, StageSummary{Stage: stage.String(), Wait: Describe(waits[i])})
	}
	s.TimeInSystem = Describe(tis)
	return s
}
