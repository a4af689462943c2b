// Package runs finds contiguous spans of non-zero activation in a trace and
// describes their shape.
package runs

import (
	"github.com/nvandessel/saescope/internal/constants"
	"github.com/nvandessel/saescope/internal/models"
)

// Extract returns the maximal runs of strictly positive samples in trace,
// ordered by start. A trace with no positive sample yields an empty slice.
func Extract(trace models.ActivationTrace) []models.Run {
	var out []models.Run

	start := -1
	for i, v := range trace {
		switch {
		case v > 0 && start < 0:
			start = i
		case v <= 0 && start >= 0:
			out = append(out, describe(trace, start, i))
			start = -1
		}
	}
	// A run reaching the end of the trace has no terminating zero.
	if start >= 0 {
		out = append(out, describe(trace, start, len(trace)))
	}

	return out
}

// describe computes the descriptors of the run trace[start:end].
func describe(trace models.ActivationTrace, start, end int) models.Run {
	values := trace[start:end]

	maxVal := values[0]
	high := 0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
		if v > constants.HighActivationThreshold {
			high++
		}
	}

	inc, dec := MonotonicStretch(values)

	return models.Run{
		Start:             start,
		Length:            end - start,
		Max:               maxVal,
		Gapped:            high > 0 && IsGapped(values),
		HighCount:         high,
		LongestIncreasing: inc,
		LongestDecreasing: dec,
	}
}
