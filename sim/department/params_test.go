package department

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsim/edsim/sim"
	"github.com/edsim/edsim/sim/dist"
)

func TestDefaultParams_Valid(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 600.0, p.Horizon())
	assert.Equal(t, sim.Priority, p.MainConsultation.Discipline)
	assert.Equal(t, 2, p.MainLab.Capacity)
	assert.Equal(t, sim.FIFO, p.FastLab.Discipline)
	assert.InDelta(t, 2.0, p.TriageLoad(), 1e-12, "10 minute triage every 5 minutes on one nurse")
}

func TestParams_Validate_ConfigurationFaults(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{"zero capacity", func(p *Params) { p.Triage.Capacity = 0 }, "triage: capacity must be >= 1"},
		{"negative capacity", func(p *Params) { p.BedAssignment.Capacity = -1 }, "bed_assignment: capacity"},
		{"unknown discipline", func(p *Params) { p.MainLab.Discipline = "lifo" }, "main_lab: unknown discipline"},
		{"weights do not sum to one", func(p *Params) { p.PriorityWeights = []float64{0.5, 0.2} }, "priority_weights"},
		{"negative weight", func(p *Params) { p.PriorityWeights = []float64{1.2, -0.2} }, "priority_weights"},
		{"weights beyond five levels", func(p *Params) { p.PriorityWeights = []float64{0, 0, 0, 0, 0, 0, 1} }, "priority_weights: priority weights must have 5 entries"},
		{"weights below five levels", func(p *Params) { p.PriorityWeights = []float64{0.5, 0.5} }, "priority_weights"},
		{"lognormal zero mean", func(p *Params) { p.FastConsultation.Service = dist.LognormalSpec(0, 1) }, "fast_consultation: service"},
		{"lognormal negative mean", func(p *Params) { p.MainConsultation.Service = dist.LognormalSpec(-3, 1) }, "main_consultation: service"},
		{"probability above one", func(p *Params) { p.PED = 1.5 }, "p_ed"},
		{"zero interarrival", func(p *Params) { p.MeanInterarrival = 0 }, "mean_interarrival"},
		{"zero runs", func(p *Params) { p.Runs = 0 }, "runs"},
		{"negative warm-up", func(p *Params) { p.WarmUp = -1 }, "warm_up"},
		{"zero duration", func(p *Params) { p.SimDuration = 0 }, "sim_duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorContains(t, p.Validate(), tt.wantErr)
		})
	}
}

func TestParams_Validate_ReportsEveryFault(t *testing.T) {
	p := DefaultParams()
	p.Triage.Capacity = 0
	p.PFastLab = -0.1
	err := p.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "triage")
	assert.ErrorContains(t, err, "p_fast_lab")
}

func TestParams_Clone_DoesNotAlias(t *testing.T) {
	p := DefaultParams()
	c := p.Clone()
	c.PriorityWeights[0] = 0.9
	c.Triage.Service.Params["mean"] = 99

	assert.Equal(t, 0.1, p.PriorityWeights[0])
	assert.Equal(t, 10.0, p.Triage.Service.Params["mean"])
}

func TestParams_Station_UnknownName(t *testing.T) {
	p := DefaultParams()
	assert.Nil(t, p.Station("pharmacy"))
	for _, name := range StationNames {
		assert.NotNil(t, p.Station(name), name)
	}
}
