// Package runner drives a full analysis: read every viz file of an input
// directory, build per-sequence and per-dimension statistics, classify each
// dimension and write the feature table in the configured formats.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nvandessel/saescope/internal/aggregate"
	"github.com/nvandessel/saescope/internal/classify"
	"github.com/nvandessel/saescope/internal/constants"
	"github.com/nvandessel/saescope/internal/logging"
	"github.com/nvandessel/saescope/internal/models"
	"github.com/nvandessel/saescope/internal/progress"
	"github.com/nvandessel/saescope/internal/store"
	"github.com/nvandessel/saescope/internal/vizfile"
)

// Config is everything one analysis needs. It is passed explicitly; the
// runner reads no globals.
type Config struct {
	HiddenDim int
	InputDir  string

	// OutputDir receives the feature table. Empty means no files are
	// written and only the Result is returned.
	OutputDir string

	// RangeKey selects the activation range read from each file.
	// Defaults to constants.DefaultRangeKey.
	RangeKey string

	Formats []constants.Format
	Workers int

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// Decisions receives one event per classified dimension. May be nil.
	Decisions *logging.DecisionLogger

	// Progress receives a per-file progress bar. Nil disables it.
	Progress io.Writer
}

// Result summarizes a finished analysis.
type Result struct {
	RunID        string                  `json:"run_id,omitempty"`
	Rows         []models.FeatureRow     `json:"-"`
	Counts       map[models.Category]int `json:"counts"`
	FilesRead    int                     `json:"files_read"`
	FilesSkipped int                     `json:"files_skipped"`
	Sequences    int                     `json:"sequences"`
	Outputs      []string                `json:"outputs"`
}

// Run executes the analysis described by cfg. Per-file problems are logged
// and skipped; only configuration errors, output failures and cancellation
// are returned.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.HiddenDim <= 0 {
		return nil, fmt.Errorf("hidden dim must be positive, got %d", cfg.HiddenDim)
	}
	if cfg.InputDir == "" {
		return nil, errors.New("input directory is required")
	}
	if cfg.RangeKey == "" {
		cfg.RangeKey = constants.DefaultRangeKey
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	logger := cfg.Logger
	started := time.Now()

	paths, err := vizfile.List(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	logger.Info("starting analysis", "input_dir", cfg.InputDir, "files", len(paths), "hidden_dim", cfg.HiddenDim)

	var bar *progress.Bar
	if cfg.Progress != nil {
		bar = progress.New(progress.Config{Total: len(paths), Message: "Analyzing", Writer: cfg.Progress})
		bar.Start()
	}

	res := &Result{}
	var stats []models.SequenceStats
	// Names such as 12.json, 12.json.gz and 012.json share a dim; the first
	// one read successfully wins.
	seen := make(map[int]string)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis cancelled: %w", err)
		}

		if dim, err := vizfile.DimFromPath(path); err == nil {
			if first, ok := seen[dim]; ok {
				bar.Increment()
				logger.Warn("skipping duplicate viz file", "file", path, "dim", dim, "kept", first)
				res.FilesSkipped++
				continue
			}
		}

		dim, seqs, err := ReadFile(ctx, path, cfg.RangeKey, logger)
		bar.Increment()
		if err != nil {
			logger.Warn("skipping viz file", "file", path, "err", err)
			res.FilesSkipped++
			continue
		}
		if dim >= cfg.HiddenDim {
			logger.Warn("skipping viz file", "file", path, "err", fmt.Sprintf("dim %d outside hidden dim %d", dim, cfg.HiddenDim))
			res.FilesSkipped++
			continue
		}

		seen[dim] = path
		stats = append(stats, seqs...)
		res.FilesRead++
	}
	bar.Done(fmt.Sprintf("Read %d files", res.FilesRead))
	res.Sequences = len(stats)

	summaries := aggregate.Dimensions(stats, cfg.HiddenDim, aggregate.WithWorkers(cfg.Workers))
	res.Rows = Classify(ctx, summaries, logger, cfg.Decisions)
	res.Counts = models.CountCategories(res.Rows)

	if cfg.OutputDir != "" {
		run := store.AnalysisRun{
			StartedAt:    started,
			FinishedAt:   time.Now(),
			InputDir:     cfg.InputDir,
			HiddenDim:    cfg.HiddenDim,
			RangeKey:     cfg.RangeKey,
			FilesRead:    res.FilesRead,
			FilesSkipped: res.FilesSkipped,
			Sequences:    res.Sequences,
		}
		out, err := WriteOutputs(ctx, cfg.OutputDir, cfg.Formats, run, res.Rows)
		if err != nil {
			return nil, err
		}
		res.RunID = out.RunID
		res.Outputs = out.Paths
	}

	logger.Info("analysis complete",
		"files_read", res.FilesRead,
		"files_skipped", res.FilesSkipped,
		"sequences", res.Sequences,
		"duration", time.Since(started).String())
	return res, nil
}

// ReadFile reads one viz file and returns its dimension and the statistics
// of every non-empty example in rangeKey.
func ReadFile(ctx context.Context, path, rangeKey string, logger *slog.Logger) (int, []models.SequenceStats, error) {
	dim, err := vizfile.DimFromPath(path)
	if err != nil {
		return 0, nil, err
	}

	file, err := vizfile.Read(path)
	if err != nil {
		return dim, nil, err
	}
	examples, err := file.Examples(rangeKey)
	if err != nil {
		return dim, nil, err
	}
	traces, err := file.NormalizedTraces(rangeKey)
	if err != nil {
		return dim, nil, err
	}

	stats := make([]models.SequenceStats, 0, len(traces))
	for i, trace := range traces {
		s, err := aggregate.Sequence(trace, dim, file.FreqActive, examples[i].UniprotID)
		if errors.Is(err, aggregate.ErrEmptyTrace) {
			logger.Warn("skipping empty trace", "file", path, "sequence", examples[i].UniprotID)
			continue
		}
		if err != nil {
			return dim, nil, err
		}
		logger.Log(ctx, logging.LevelTrace, "sequence stats",
			"dim", dim, "sequence", s.SequenceID, "runs", s.RunCount(), "fraction_active", s.FractionActive)
		stats = append(stats, s)
	}
	return dim, stats, nil
}

// Classify labels every summary, logging each decision.
func Classify(ctx context.Context, summaries []models.DimensionSummary, logger *slog.Logger, decisions *logging.DecisionLogger) []models.FeatureRow {
	rows := make([]models.FeatureRow, len(summaries))
	for i, s := range summaries {
		d := classify.Explain(s)
		rows[i] = models.FeatureRow{DimensionSummary: s, Category: d.Category}

		logger.Log(ctx, slog.LevelDebug, "classified dimension", "dim", s.Dim, "category", d.Category, "rule", d.Rule)
		if decisions != nil {
			decisions.Log(map[string]any{
				"event":    "classified",
				"dim":      s.Dim,
				"category": string(d.Category),
				"rule":     d.Rule,
				"n_seqs":   s.NumSequences,
			})
		}
	}
	return rows
}
