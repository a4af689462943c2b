package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvandessel/saescope/internal/constants"
	"github.com/nvandessel/saescope/internal/export"
	"github.com/nvandessel/saescope/internal/models"
	"github.com/nvandessel/saescope/internal/store"
)

// Outputs lists what WriteOutputs produced.
type Outputs struct {
	// RunID is the analysis run id recorded in the SQLite output, if written.
	RunID string
	Paths []string
}

// OutputPath returns the file written for format inside dir.
func OutputPath(dir string, format constants.Format) string {
	if format == constants.FormatSQLite {
		return store.DBPath(dir)
	}
	return filepath.Join(dir, constants.OutputBaseName+"."+format.Extension())
}

// WriteOutputs writes rows to dir in each of formats. No formats means
// parquet only.
func WriteOutputs(ctx context.Context, dir string, formats []constants.Format, run store.AnalysisRun, rows []models.FeatureRow) (*Outputs, error) {
	if len(formats) == 0 {
		formats = []constants.Format{constants.FormatParquet}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	out := &Outputs{}
	for _, format := range formats {
		path := OutputPath(dir, format)
		switch format {
		case constants.FormatParquet:
			if err := export.WriteParquetFile(path, rows); err != nil {
				return nil, fmt.Errorf("failed to write parquet output: %w", err)
			}
		case constants.FormatCSV:
			if err := export.WriteCSVFile(path, rows, export.DefaultCSVConfig()); err != nil {
				return nil, fmt.Errorf("failed to write CSV output: %w", err)
			}
		case constants.FormatSQLite:
			id, err := saveSQLite(ctx, path, run, rows)
			if err != nil {
				return nil, fmt.Errorf("failed to write SQLite output: %w", err)
			}
			out.RunID = id
		default:
			return nil, fmt.Errorf("unknown output format %q", format)
		}
		out.Paths = append(out.Paths, path)
	}
	return out, nil
}

func saveSQLite(ctx context.Context, path string, run store.AnalysisRun, rows []models.FeatureRow) (string, error) {
	s, err := store.NewSQLiteFeatureStore(path)
	if err != nil {
		return "", err
	}
	defer s.Close()

	return s.SaveRun(ctx, run, rows)
}
