// Package aggregate folds run descriptors into per-sequence statistics and
// per-dimension summaries.
package aggregate

import (
	"errors"

	"github.com/nvandessel/saescope/internal/models"
	"github.com/nvandessel/saescope/internal/runs"
)

// ErrEmptyTrace is returned for a trace with no samples, whose active
// fraction is undefined.
var ErrEmptyTrace = errors.New("activation trace is empty")

// Sequence extracts the runs of one trace and assembles its SequenceStats.
func Sequence(trace models.ActivationTrace, dim int, freqActive float64, sequenceID string) (models.SequenceStats, error) {
	if len(trace) == 0 {
		return models.SequenceStats{}, ErrEmptyTrace
	}

	found := runs.Extract(trace)
	n := len(found)

	stats := models.SequenceStats{
		Dim:               dim,
		SequenceID:        sequenceID,
		FreqActive:        freqActive,
		Lengths:           make([]int, 0, n),
		Starts:            make([]int, 0, n),
		Maxes:             make([]float64, 0, n),
		Gapped:            make([]bool, 0, n),
		HighCounts:        make([]int, 0, n),
		LongestIncreasing: make([]int, 0, n),
		LongestDecreasing: make([]int, 0, n),
		StartDistances:    make([]int, 0, max(n-1, 0)),
	}

	active := 0
	for i, r := range found {
		stats.Lengths = append(stats.Lengths, r.Length)
		stats.Starts = append(stats.Starts, r.Start)
		stats.Maxes = append(stats.Maxes, r.Max)
		stats.Gapped = append(stats.Gapped, r.Gapped)
		stats.HighCounts = append(stats.HighCounts, r.HighCount)
		stats.LongestIncreasing = append(stats.LongestIncreasing, r.LongestIncreasing)
		stats.LongestDecreasing = append(stats.LongestDecreasing, r.LongestDecreasing)
		if i > 0 {
			stats.StartDistances = append(stats.StartDistances, r.Start-found[i-1].Start)
		}
		active += r.Length
	}

	// Runs cover exactly the positive samples, so their lengths sum to the active count.
	stats.FractionActive = float64(active) / float64(len(trace))

	return stats, nil
}
