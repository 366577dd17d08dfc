package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/department"
)

func TestSummarizeRuns_AveragesReplications(t *testing.T) {
	runs := []department.RunStats{
		{Run: 0, Arrivals: 10, Discharged: 8, InFlight: 2, Stations: map[department.StationName]department.StationStats{
			department.Triage: {PoolStats: sim.PoolStats{Utilization: 0.5, MaxWaiting: 2}, Finished: 9},
		}},
		{Run: 1, Arrivals: 20, Discharged: 14, InFlight: 6, Stations: map[department.StationName]department.StationStats{
			department.Triage: {PoolStats: sim.PoolStats{Utilization: 0.9, MaxWaiting: 4}, Finished: 15},
		}},
	}

	s := SummarizeRuns(runs)

	assert.Equal(t, 2, s.Replications)
	assert.Equal(t, 15.0, s.MeanArrivals)
	assert.Equal(t, 11.0, s.MeanDischarged)
	assert.Equal(t, 4.0, s.MeanInFlight)
	require.Contains(t, s.Stations, department.Triage)
	assert.InDelta(t, 0.7, s.Stations[department.Triage].Utilization.Mean, 1e-12)
	assert.Equal(t, 4.0, s.Stations[department.Triage].MaxWaiting.Max)
	assert.Equal(t, 12.0, s.Stations[department.Triage].Served)
	assert.NotContains(t, s.Stations, department.BedAssignment)
}

func TestSummarizeRuns_Empty(t *testing.T) {
	s := SummarizeRuns(nil)
	assert.Zero(t, s.Replications)
	assert.Empty(t, s.Stations)
}
