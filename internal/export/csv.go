package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/nvandessel/saescope/internal/models"
)

// CSVConfig specifies options for CSV export.
type CSVConfig struct {
	// TSV writes tab-separated values instead of commas.
	TSV bool

	// IncludeHeader writes column names as the first row.
	IncludeHeader bool

	// Precision is the number of decimal places for float columns.
	// Negative values use the smallest exact representation.
	Precision int
}

// DefaultCSVConfig returns RFC 4180 CSV with a header and full float precision.
func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		IncludeHeader: true,
		Precision:     -1,
	}
}

// CSVWriter writes feature rows as CSV.
type CSVWriter struct {
	config      *CSVConfig
	writer      *csv.Writer
	headerDone  bool
	rowsWritten int
}

// NewCSVWriter creates a CSVWriter on w. A nil config means DefaultCSVConfig().
func NewCSVWriter(w io.Writer, config *CSVConfig) *CSVWriter {
	if config == nil {
		config = DefaultCSVConfig()
	}

	cw := csv.NewWriter(w)
	if config.TSV {
		cw.Comma = '\t'
	}

	return &CSVWriter{config: config, writer: cw}
}

// Write writes one row, preceded by the header on the first call when
// IncludeHeader is set.
func (cw *CSVWriter) Write(row models.FeatureRow) error {
	if cw.config.IncludeHeader && !cw.headerDone {
		if err := cw.writer.Write(ColumnNames()); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		cw.headerDone = true
	}

	record := make([]string, len(Columns))
	for i, c := range Columns {
		record[i] = c.Text(row, cw.config.Precision)
	}
	if err := cw.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}

	cw.rowsWritten++
	return nil
}

// Flush flushes buffered data to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// RowsWritten returns the number of data rows written, excluding the header.
func (cw *CSVWriter) RowsWritten() int {
	return cw.rowsWritten
}

// WriteCSV writes all rows to w and flushes.
func WriteCSV(w io.Writer, rows []models.FeatureRow, config *CSVConfig) error {
	cw := NewCSVWriter(w, config)
	for _, r := range rows {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// WriteCSVFile writes rows to a CSV file at path, replacing any existing file.
func WriteCSVFile(path string, rows []models.FeatureRow, config *CSVConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	if err := WriteCSV(f, rows, config); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
