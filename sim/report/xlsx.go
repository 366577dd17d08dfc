package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/edsim/edsim/sim/department"
)

const (
	patientsSheet = "Patients"
	summarySheet  = "Summary"
)

// Meta identifies the batch and experiment a workbook belongs to.
type Meta struct {
	BatchID    string
	Experiment string
}

// NewBatchID returns a fresh identifier shared by every file of one invocation.
func NewBatchID() string { return uuid.NewString() }

// WriteXLSX writes a workbook with a patient sheet and a summary sheet.
func WriteXLSX(w io.Writer, records []department.Record, summary Summary, meta Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", patientsSheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writePatients(f, NewTable(records), headerStyle); err != nil {
		return err
	}
	if err := writeSummary(f, summary, meta, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writePatients(f *excelize.File, t Table, headerStyle int) error {
	for col, header := range t.Header {
		if err := setCell(f, patientsSheet, col+1, 1, header); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(patientsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range t.Rows {
		for j, cell := range row {
			// unvisited stages stay blank
			if cell == nil {
				continue
			}
			if err := setCell(f, patientsSheet, j+1, i+2, cell); err != nil {
				return fmt.Errorf("failed to set cell at row %d, col %d: %w", i+2, j+1, err)
			}
		}
	}

	if err := f.SetPanes(patientsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s Summary, meta Meta, headerStyle int) error {
	rows := [][]any{
		{"batch_id", meta.BatchID},
		{"experiment", meta.Experiment},
		{"patients", s.Patients},
		{"runs", s.Runs},
		{"main_route", s.MainRoute},
		{"fast_route", s.FastRoute},
		{"needs_lab", s.NeedsLab},
		{"needs_bed", s.NeedsBed},
		{"mean_time_in_system", s.TimeInSystem.Mean},
		{"p95_time_in_system", s.TimeInSystem.P95},
		{},
		{"stage", "count", "mean_wait", "std_dev_wait", "p50_wait", "p90_wait", "p95_wait", "max_wait"},
	}
	headerRow := len(rows)
	for _, st := range s.Stages {
		w := st.Wait
		rows = append(rows, []any{st.Stage, w.Count, w.Mean, w.StdDev, w.P50, w.P90, w.P95, w.Max})
	}

	for i, row := range rows {
		for j, cell := range row {
			if err := setCell(f, summarySheet, j+1, i+1, cell); err != nil {
				return err
			}
		}
	}
	start := "A" + strconv.Itoa(headerRow)
	end := "H" + strconv.Itoa(headerRow)
	if err := f.SetCellStyle(summarySheet, start, end, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// ExportXLSX writes the workbook to path.
func ExportXLSX(path string, records []department.Record, summary Summary, meta Meta) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteXLSX(file, records, summary, meta); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logrus.Infof("Wrote %d patient records to %s (batch %s)", len(records), path, meta.BatchID)
	return nil
}

// Export writes records as CSV or XLSX depending on the path's extension.
func Export(path string, records []department.Record, summary Summary, meta Meta) error {
	switch ext := extension(path); ext {
	case ".csv":
		return ExportCSV(path, records)
	case ".xlsx":
		return ExportXLSX(path, records, summary, meta)
	default:
		return fmt.Errorf("unsupported output format %q (want .csv or .xlsx)", ext)
	}
}
