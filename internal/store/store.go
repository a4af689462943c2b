// Package store persists the per-dimension feature table and the analysis
// runs that produced it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nvandessel/saescope/internal/models"
)

// ErrNotFound is returned when a dimension or run is not present.
var ErrNotFound = errors.New("not found")

// AnalysisRun records one invocation of the analysis pipeline.
type AnalysisRun struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	InputDir     string    `json:"input_dir"`
	HiddenDim    int       `json:"hidden_dim"`
	RangeKey     string    `json:"range_key"`
	FilesRead    int       `json:"files_read"`
	FilesSkipped int       `json:"files_skipped"`
	Sequences    int       `json:"sequences"`
}

// FeatureStore is the read/write surface over a feature table.
type FeatureStore interface {
	// SaveRun records run and replaces its feature rows. An empty run.ID is
	// assigned a fresh UUID; the stored ID is returned.
	SaveRun(ctx context.Context, run AnalysisRun, rows []models.FeatureRow) (string, error)

	// LatestRun returns the most recently finished run.
	LatestRun(ctx context.Context) (*AnalysisRun, error)

	// Feature returns the row for dim from the latest run.
	Feature(ctx context.Context, dim int) (*models.FeatureRow, error)

	// Features returns all rows of the latest run ordered by dim. A non-empty
	// category restricts the result to that category.
	Features(ctx context.Context, category models.Category) ([]models.FeatureRow, error)

	// CategoryCounts counts the latest run's rows per category.
	CategoryCounts(ctx context.Context) (map[models.Category]int, error)

	Close() error
}
