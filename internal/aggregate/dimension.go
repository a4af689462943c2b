package aggregate

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/saescope/internal/constants"
	"github.com/nvandessel/saescope/internal/models"
)

// Option configures Dimensions.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers summarizes up to n dimensions concurrently. Values below 2
// keep the computation on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// GroupByDim groups stats by dimension, preserving input order within each group.
func GroupByDim(stats []models.SequenceStats) map[int][]models.SequenceStats {
	groups := make(map[int][]models.SequenceStats)
	for _, s := range stats {
		groups[s.Dim] = append(groups[s.Dim], s)
	}
	return groups
}

// Dimensions summarizes every dimension in [0, hiddenDim). Dimensions with no
// stats get a dead-latent row; stats for dimensions outside the range are
// ignored. The result is ordered by dimension and has exactly hiddenDim rows.
func Dimensions(stats []models.SequenceStats, hiddenDim int, opts ...Option) []models.DimensionSummary {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if hiddenDim <= 0 {
		return []models.DimensionSummary{}
	}

	groups := GroupByDim(stats)
	out := make([]models.DimensionSummary, hiddenDim)

	summarize := func(dim int) {
		group, ok := groups[dim]
		if !ok {
			out[dim] = models.DeadSummary(dim)
			return
		}
		out[dim] = Dimension(dim, group)
	}

	if o.workers < 2 {
		for dim := 0; dim < hiddenDim; dim++ {
			summarize(dim)
		}
		return out
	}

	// Each goroutine writes only its own index of out.
	var g errgroup.Group
	g.SetLimit(o.workers)
	for dim := 0; dim < hiddenDim; dim++ {
		g.Go(func() error {
			summarize(dim)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// motif is a high-activation run tagged with its sequence.
type motif struct {
	sequenceID string
	run        models.Run
}

// Dimension summarizes the stats of a single dimension. group must be
// non-empty; an empty group yields the dead-latent row.
func Dimension(dim int, group []models.SequenceStats) models.DimensionSummary {
	if len(group) == 0 {
		return models.DeadSummary(dim)
	}

	var (
		lengths         []int
		distances       []int
		runsPerSeq      = make([]int, 0, len(group))
		fractionsActive = make([]float64, 0, len(group))
		freqsActive     = make([]float64, 0, len(group))
		motifs          []motif
		highRuns        int
	)

	for _, s := range group {
		runsPerSeq = append(runsPerSeq, s.RunCount())
		fractionsActive = append(fractionsActive, s.FractionActive)
		freqsActive = append(freqsActive, s.FreqActive)
		lengths = append(lengths, s.Lengths...)
		distances = append(distances, s.StartDistances...)

		for i := 0; i < s.RunCount(); i++ {
			if s.Maxes[i] > constants.HighActivationThreshold {
				highRuns++
				motifs = append(motifs, motif{sequenceID: s.SequenceID, run: s.Run(i)})
			}
		}
	}

	sort.SliceStable(motifs, func(i, j int) bool {
		return motifs[i].run.Max > motifs[j].run.Max
	})

	period := computePeriodicity(distances)

	summary := models.DimensionSummary{
		Dim:                dim,
		MeanFractionActive: mean(fractionsActive),
		FracRunsHigh:       fraction(highRuns, len(lengths)),
		StdErrRunLength:    stdErr(lengths),
		FreqTopTwoPeriod:   period.freqTopTwo,
		FreqTopPeriod:      period.freqTop,
		TopPeriod:          period.top,
		MedianRunsPerSeq:   median(runsPerSeq),
		MeanHighRunsPerSeq: fraction(len(motifs), len(group)),
		NumSequences:       len(group),
		FreqActiveGlobal:   mean(freqsActive),
	}

	if len(motifs) == 0 {
		return summary
	}

	motifLengths := make([]int, len(motifs))
	highCounts := make([]int, len(motifs))
	increasing := make([]int, len(motifs))
	decreasing := make([]int, len(motifs))
	var incGT2, decGT2 int
	for i, m := range motifs {
		motifLengths[i] = m.run.Length
		highCounts[i] = m.run.HighCount
		increasing[i] = m.run.LongestIncreasing
		decreasing[i] = m.run.LongestDecreasing
		if m.run.LongestIncreasing > constants.MonotonicStretchMin {
			incGT2++
		}
		if m.run.LongestDecreasing > constants.MonotonicStretchMin {
			decGT2++
		}
	}

	summary.MedianTopRunLength = median(topRunLengths(motifs))
	summary.MedianHighRunLength = median(motifLengths)
	summary.FracIncreasingGT2 = fraction(incGT2, len(motifs))
	summary.FracDecreasingGT2 = fraction(decGT2, len(motifs))
	summary.MedianMonotonicStretch = max(median(increasing), median(decreasing), 0)
	summary.StdErrHighRunLength = stdErr(motifLengths)
	summary.StdErrHighCount = stdErr(highCounts)
	summary.TopRunGapped = motifs[0].run.Gapped

	return summary
}

// topRunLengths keeps the first motif of each sequence from motifs, which are
// sorted by max descending, and returns their lengths.
func topRunLengths(motifs []motif) []int {
	seen := make(map[string]bool)
	var out []int
	for _, m := range motifs {
		if seen[m.sequenceID] {
			continue
		}
		seen[m.sequenceID] = true
		out = append(out, m.run.Length)
	}
	return out
}
