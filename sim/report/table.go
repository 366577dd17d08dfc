// Package report turns discharged-patient records into tables, summary
// statistics and files. It sits outside the simulation core: nothing here
// feeds back into a run.
package report

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/edsim/edsim/sim/department"
)

// Columns is the dataset header in output order.
var Columns = []string{
	"p_id", "arrival_time", "priority", "route_class", "needs_lab", "needs_bed",
	"triage_wait", "finished_triage_at",
	"consult_wait", "finished_consult_at",
	"lab_wait", "finished_lab_at",
	"bed_wait", "finished_bed_at",
	"discharged_at", "time_in_system", "run",
}

// Table is the tabular form of a dataset. A nil cell marks a stage the
// patient never visited.
type Table struct {
	Header []string
	Rows   [][]any
}

// NewTable builds one row per record, in the order given.
func NewTable(records []department.Record) Table {
	t := Table{Header: Columns, Rows: make([][]any, 0, len(records))}
	for _, r := range records {
		row := []any{r.PatientID, r.ArrivalTime, r.Priority, string(r.Route), r.NeedsLab, r.NeedsBed}
		for _, st := range []department.StageTiming{r.Triage, r.Consult, r.Lab, r.Bed} {
			if st.Done {
				row = append(row, st.Wait, st.FinishedAt)
			} else {
				row = append(row, nil, nil)
			}
		}
		row = append(row, r.DischargedAt, r.TimeInSystem(), r.Run)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FilterWarmUp drops patients who arrived before the warm-up period ended.
func FilterWarmUp(records []department.Record, warmUp float64) []department.Record {
	out := make([]department.Record, 0, len(records))
	for _, r := range records {
		if r.ArrivalTime >= warmUp {
			out = append(out, r)
		}
	}
	return out
}

// formatCell renders a cell for text output; nil becomes the empty string.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	}
	panic("report: unsupported cell type")
}

func extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
