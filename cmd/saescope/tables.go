package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nvandessel/saescope/internal/constants"
	"github.com/nvandessel/saescope/internal/export"
	"github.com/nvandessel/saescope/internal/models"
	"github.com/nvandessel/saescope/internal/runner"
	"github.com/nvandessel/saescope/internal/store"
)

// loadRows reads the feature table from dir, preferring the SQLite output
// and falling back to parquet. It returns the path it read.
func loadRows(ctx context.Context, dir string) ([]models.FeatureRow, string, error) {
	dbPath := runner.OutputPath(dir, constants.FormatSQLite)
	if _, err := os.Stat(dbPath); err == nil {
		s, err := store.OpenSQLiteFeatureStore(dbPath)
		if err != nil {
			return nil, "", err
		}
		defer s.Close()

		rows, err := s.Features(ctx, "")
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", dbPath, err)
		}
		return rows, dbPath, nil
	}

	parquetPath := runner.OutputPath(dir, constants.FormatParquet)
	if _, err := os.Stat(parquetPath); err == nil {
		rows, err := export.ReadParquetFile(ctx, parquetPath)
		if err != nil {
			return nil, "", err
		}
		return rows, parquetPath, nil
	}

	return nil, "", fmt.Errorf("no feature table in %s (run 'saescope analyze' with --format sqlite or parquet)", dir)
}

// findRow returns the row for dim.
func findRow(rows []models.FeatureRow, dim int) (models.FeatureRow, error) {
	for _, r := range rows {
		if r.Dim == dim {
			return r, nil
		}
	}
	return models.FeatureRow{}, fmt.Errorf("dim %d: %w", dim, store.ErrNotFound)
}

// printCounts writes one line per category in cascade order, skipping
// categories with no dimensions.
func printCounts(w io.Writer, counts map[models.Category]int) {
	fmt.Fprintln(w, "Category counts:")
	total := 0
	for _, c := range models.AllCategories {
		n := counts[c]
		total += n
		if n == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-22s %d\n", c, n)
	}
	fmt.Fprintf(w, "  %-22s %d\n", "total", total)
}

// printRow writes every column of row as "name: value".
func printRow(w io.Writer, row models.FeatureRow) {
	for _, c := range export.Columns {
		fmt.Fprintf(w, "  %-28s %s\n", c.Name+":", c.Text(row, 4))
	}
}

// rowColumns returns row keyed by column name for JSON output.
func rowColumns(row models.FeatureRow) map[string]any {
	m := make(map[string]any, len(export.Columns))
	for _, c := range export.Columns {
		m[c.Name] = c.Value(row)
	}
	return m
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
