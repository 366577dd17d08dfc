package report

import (
	"gonum.org/v1/gonum/stat"

	"github.com/edsim/edsim/sim/department"
)

// StationRuns is one station's behavior averaged over replications.
type StationRuns struct {
	Utilization Distribution `json:"utilization"`
	MaxWaiting  Distribution `json:"max_waiting"`
	Served      float64      `json:"mean_served"`
}

// RunsSummary aggregates the per-replication stats of a batch.
type RunsSummary struct {
	Replications   int                                    `json:"replications"`
	MeanArrivals   float64                                `json:"mean_arrivals"`
	MeanDischarged float64                                `json:"mean_discharged"`
	MeanInFlight   float64                                `json:"mean_in_flight"`
	MeanEvents     float64                                `json:"mean_events"`
	Stations       map[department.StationName]StationRuns `json:"stations"`
}

// SummarizeRuns averages replication stats.
func SummarizeRuns(runs []department.RunStats) RunsSummary {
	s := RunsSummary{Replications: len(runs), Stations: make(map[department.StationName]StationRuns)}
	if len(runs) == 0 {
		return s
	}
	arrivals := make([]float64, len(runs))
	discharged := make([]float64, len(runs))
	inFlight := make([]float64, len(runs))
	events := make([]float64, len(runs))
	for i, r := range runs {
		arrivals[i] = float64(r.Arrivals)
		discharged[i] = float64(r.Discharged)
		inFlight[i] = float64(r.InFlight)
		events[i] = float64(r.Events)
	}
	s.MeanArrivals = stat.Mean(arrivals, nil)
	s.MeanDischarged = stat.Mean(discharged, nil)
	s.MeanInFlight = stat.Mean(inFlight, nil)
	s.MeanEvents = stat.Mean(events, nil)

	for _, name := range department.StationNames {
		util := make([]float64, 0, len(runs))
		maxWait := make([]float64, 0, len(runs))
		served := make([]float64, 0, len(runs))
		for _, r := range runs {
			st, ok := r.Stations[name]
			if !ok {
				continue
			}
			util = append(util, st.Utilization)
			maxWait = append(maxWait, float64(st.MaxWaiting))
			served = append(served, float64(st.Finished))
		}
		if len(util) == 0 {
			continue
		}
		s.Stations[name] = StationRuns{
			Utilization: Describe(util),
			MaxWaiting:  Describe(maxWait),
			Served:      stat.Mean(served, nil),
		}
	}
	return s
}
