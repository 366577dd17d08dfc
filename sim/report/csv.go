package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/edsim/edsim/sim/department"
)

// WriteCSV writes the header and one line per record.
func WriteCSV(w io.Writer, records []department.Record) error {
	t := NewTable(records)
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	line := make([]string, len(t.Header))
	for i, row := range t.Rows {
		for j, cell := range row {
			line[j] = formatCell(cell)
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSV writes records to a file at path.
func ExportCSV(path string, records []department.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(file, records); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	logrus.Infof("Wrote %d patient records to %s", len(records), path)
	return nil
}
