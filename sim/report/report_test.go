package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/edsim/edsim/sim/department"
	"github.com/edsim/edsim/sim/internal/testutil"
)

func done(wait, finished float64) department.StageTiming {
	return department.StageTiming{Wait: wait, FinishedAt: finished, Done: true}
}

func sampleRecords() []department.Record {
	return []department.Record{
		{
			Run: 0, PatientID: 1, ArrivalTime: 130, Priority: 1, Route: department.RouteMain,
			NeedsLab: true, NeedsBed: true,
			Triage: done(0, 140), Consult: done(5, 175), Lab: done(0, 200), Bed: done(10, 300),
			DischargedAt: 300,
		},
		{
			Run: 0, PatientID: 2, ArrivalTime: 100, Priority: 4, Route: department.RouteFast,
			Triage: done(2, 112), Consult: done(8, 140),
			DischargedAt: 140,
		},
		{
			Run: 1, PatientID: 1, ArrivalTime: 150, Priority: 3, Route: department.RouteFast,
			Triage: done(4, 164), Consult: done(1, 185),
			DischargedAt: 185,
		},
	}
}

func TestNewTable_BlankCellsForUnvisitedStages(t *testing.T) {
	table := NewTable(sampleRecords())
	require.Len(t, table.Rows, 3)
	assert.Equal(t, len(Columns), len(table.Rows[0]))

	// fast patient: lab and bed columns are nil
	row := table.Rows[1]
	assert.Equal(t, 2, row[0])
	assert.Nil(t, row[10], "lab_wait")
	assert.Nil(t, row[13], "finished_bed_at")
	assert.Equal(t, 40.0, row[15], "time_in_system")
	assert.Equal(t, 0, row[16], "run")
}

func TestFilterWarmUp_DropsEarlyArrivals(t *testing.T) {
	kept := FilterWarmUp(sampleRecords(), 120)
	require.Len(t, kept, 2)
	for _, r := range kept {
		assert.GreaterOrEqual(t, r.ArrivalTime, 120.0)
	}
	assert.Len(t, FilterWarmUp(sampleRecords(), 0), 3)
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	assert.Equal(t, Columns, lines[0])
	assert.Equal(t, []string{
		"2", "100", "4", "fast", "false", "false",
		"2", "112", "8", "140", "", "", "", "",
		"140", "40", "0",
	}, lines[2])
}

func TestSummarize_StageWaits(t *testing.T) {
	s := Summarize(sampleRecords())

	assert.Equal(t, 3, s.Patients)
	assert.Equal(t, 2, s.Runs)
	assert.Equal(t, 1, s.MainRoute)
	assert.Equal(t, 2, s.FastRoute)
	assert.Equal(t, 1, s.NeedsBed)
	assert.Equal(t, map[int]int{1: 1, 3: 1, 4: 1}, s.ByPriority)

	require.Len(t, s.Stages, 4)
	triage := s.Stages[0]
	assert.Equal(t, "triage", triage.Stage)
	assert.Equal(t, 3, triage.Wait.Count)
	testutil.AssertFloat64Equal(t, "triage mean wait", 2, triage.Wait.Mean, 1e-12)
	testutil.AssertFloat64Equal(t, "triage std dev", 2, triage.Wait.StdDev, 1e-12)
	assert.Equal(t, 4.0, triage.Wait.Max)

	lab := s.Stages[2]
	assert.Equal(t, 1, lab.Wait.Count)
	assert.Zero(t, lab.Wait.StdDev, "single observation has no spread")

	testutil.AssertFloat64Equal(t, "mean time in system", (170.0+40+35)/3, s.TimeInSystem.Mean, 1e-12)
}

func TestDescribe_Empty(t *testing.T) {
	assert.Equal(t, Distribution{}, Describe(nil))
}

func TestDescribe_Quantiles(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[99-i] = float64(i + 1)
	}
	d := Describe(values)
	assert.Equal(t, 100, d.Count)
	assert.Equal(t, 50.0, d.P50)
	assert.Equal(t, 90.0, d.P90)
	assert.Equal(t, 95.0, d.P95)
	assert.Equal(t, 100.0, d.Max)
	assert.Equal(t, 100.0, values[0], "input is not reordered")
}

func TestWriteXLSX_PatientAndSummarySheets(t *testing.T) {
	records := sampleRecords()
	meta := Meta{BatchID: NewBatchID(), Experiment: "baseline"}
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, records, Summarize(records), meta))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{patientsSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(patientsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "1", rows[1][0])

	lab, err := f.GetCellValue(patientsSheet, "K3")
	require.NoError(t, err)
	assert.Empty(t, lab, "fast patient has no lab wait")

	batch, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, meta.BatchID, batch)
	_, err = uuid.Parse(batch)
	assert.NoError(t, err)
}

func TestExport_ByExtension(t *testing.T) {
	dir := t.TempDir()
	records := sampleRecords()
	summary := Summarize(records)
	meta := Meta{BatchID: NewBatchID()}

	require.NoError(t, Export(filepath.Join(dir, "out.csv"), records, summary, meta))
	require.NoError(t, Export(filepath.Join(dir, "out.XLSX"), records, summary, meta))
	assert.ErrorContains(t, Export(filepath.Join(dir, "out.json"), records, summary, meta), "unsupported output format")
}
