package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nvandessel/saescope/internal/models"
)

func sampleRows() []models.FeatureRow {
	return []models.FeatureRow{
		{
			DimensionSummary: models.DimensionSummary{
				Dim:                    0,
				MeanFractionActive:     0.125,
				MedianTopRunLength:     4.5,
				FracRunsHigh:           0.6,
				MedianHighRunLength:    3,
				FracIncreasingGT2:      1.0 / 3.0,
				MedianMonotonicStretch: 2,
				StdErrHighRunLength:    1.4529663145135578,
				FreqTopTwoPeriod:       1,
				FreqTopPeriod:          0.5,
				TopPeriod:              2,
				MedianRunsPerSeq:       1,
				MeanHighRunsPerSeq:     1,
				StdErrRunLength:        0.9,
				TopRunGapped:           true,
				NumSequences:           12,
				FreqActiveGlobal:       0.02,
			},
			Category: models.CategoryShortMotif,
		},
		{
			DimensionSummary: models.DeadSummary(1),
			Category:         models.CategoryNotEnoughData,
		},
	}
}

func TestColumns_MatchSummaryFields(t *testing.T) {
	names := ColumnNames()
	if names[0] != "dim" || names[len(names)-1] != "feat_type" {
		t.Errorf("unexpected column order: %v", names)
	}

	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate column %q", n)
		}
		seen[n] = true
	}

	// One column per DimensionSummary field plus the category.
	want := reflect.TypeOf(models.DimensionSummary{}).NumField() + 1
	if len(names) != want {
		t.Errorf("got %d columns, want %d", len(names), want)
	}
}

func TestColumn_ValueAndDest(t *testing.T) {
	row := sampleRows()[0]

	var copied models.FeatureRow
	for _, c := range Columns {
		switch dest := c.Dest(&copied).(type) {
		case *int:
			*dest = int(c.Value(row).(int64))
		case *float64:
			*dest = c.Value(row).(float64)
		case *bool:
			*dest = c.Value(row).(bool)
		case *string:
			*dest = c.Value(row).(string)
		default:
			t.Fatalf("column %q has unexpected destination %T", c.Name, dest)
		}
	}

	if !reflect.DeepEqual(copied, row) {
		t.Errorf("copy through Value/Dest = %+v, want %+v", copied, row)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows(), nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if !reflect.DeepEqual(records[0], ColumnNames()) {
		t.Errorf("header = %v", records[0])
	}

	first := records[1]
	if first[0] != "0" || first[len(first)-1] != "short motif (1-20)" {
		t.Errorf("unexpected first row: %v", first)
	}
	if first[1] != "0.125" {
		t.Errorf("mean_percent_active = %q, want 0.125", first[1])
	}
	if last := records[2]; last[len(last)-2] != "true" {
		t.Errorf("dead_latent column should be true for the dead row: %v", last)
	}
}

func TestCSVWriter_TSVWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCSVWriter(&buf, &CSVConfig{TSV: true, Precision: 2})
	for _, r := range sampleRows() {
		if err := cw.Write(r); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if cw.RowsWritten() != 2 {
		t.Errorf("RowsWritten() = %d, want 2", cw.RowsWritten())
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	fields := strings.Split(lines[0], "\t")
	if len(fields) != len(Columns) {
		t.Fatalf("expected %d fields, got %d", len(Columns), len(fields))
	}
	if fields[0] != "0" || fields[2] != "4.50" {
		t.Errorf("unexpected TSV line: %q", lines[0])
	}
}

func TestParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feature_stats.parquet")
	rows := sampleRows()

	if err := WriteParquetFile(path, rows); err != nil {
		t.Fatalf("WriteParquetFile failed: %v", err)
	}

	got, err := ReadParquetFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadParquetFile failed: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rows)
	}
}

func TestParquet_EmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	if err := WriteParquetFile(path, nil); err != nil {
		t.Fatalf("WriteParquetFile failed: %v", err)
	}

	got, err := ReadParquetFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadParquetFile failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}

func TestArrowSchema(t *testing.T) {
	schema := ArrowSchema()
	if schema.NumFields() != len(Columns) {
		t.Fatalf("schema has %d fields, want %d", schema.NumFields(), len(Columns))
	}
	if schema.Field(0).Name != "dim" {
		t.Errorf("first field = %q, want dim", schema.Field(0).Name)
	}
}
