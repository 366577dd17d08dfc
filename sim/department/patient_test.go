package department

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteFor_PriorityCutoff(t *testing.T) {
	tests := []struct {
		priority int
		want     Route
	}{
		{1, RouteMain},
		{2, RouteMain},
		{3, RouteFast},
		{4, RouteFast},
		{5, RouteFast},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RouteFor(tt.priority), "priority %d", tt.priority)
	}
}

func TestPatient_Complete_WaitFromPreviousStage(t *testing.T) {
	// GIVEN a patient arriving at 4
	p := NewPatient(1, 4)

	// WHEN triage starts at 6 and ends at 16, consultation starts at 20 and ends at 50
	p.complete(StageTriage, 6, 16)
	p.complete(StageConsult, 20, 50)

	// THEN each wait is measured from the end of the previous stage
	assert.Equal(t, StageTiming{Wait: 2, FinishedAt: 16, Done: true}, p.Timing(StageTriage))
	assert.Equal(t, StageTiming{Wait: 4, FinishedAt: 50, Done: true}, p.Timing(StageConsult))
	assert.False(t, p.Timing(StageLab).Done)
}

func TestPatient_SetOnceFields_Panic(t *testing.T) {
	p := NewPatient(1, 0)
	p.complete(StageTriage, 0, 1)
	assert.Panics(t, func() { p.complete(StageTriage, 1, 2) })

	p.assess(2, true, false)
	assert.Panics(t, func() { p.assess(4, false, false) })

	p.discharge(3)
	assert.Panics(t, func() { p.discharge(4) })
}

func TestPatient_TimeInSystem(t *testing.T) {
	p := NewPatient(9, 10)
	assert.True(t, math.IsNaN(p.TimeInSystem()), "undefined before discharge")

	p.discharge(55)
	assert.Equal(t, 45.0, p.TimeInSystem())

	rec := p.Record(3)
	assert.Equal(t, 3, rec.Run)
	assert.Equal(t, 9, rec.PatientID)
	assert.Equal(t, 45.0, rec.TimeInSystem())
}

func TestPatient_Assess_DerivesRoute(t *testing.T) {
	p := NewPatient(1, 0)
	require.False(t, p.Assessed())
	AssessAs(p, 3, true, false)
	assert.True(t, p.Assessed())
	assert.Equal(t, RouteFast, p.Route)
	assert.True(t, p.NeedsLab)
}

func TestRecord_Stage(t *testing.T) {
	p := NewPatient(1, 0)
	p.complete(StageTriage, 0, 1)
	p.complete(StageConsult, 1, 2)
	p.complete(StageLab, 3, 4)
	p.complete(StageBed, 4, 8)
	rec := p.Record(0)
	for _, stage := range []Stage{StageTriage, StageConsult, StageLab, StageBed} {
		assert.Equal(t, p.Timing(stage), rec.Stage(stage), stage.String())
	}
	assert.Equal(t, "lab", StageLab.String())
}
