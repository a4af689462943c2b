package models

// DimensionSummary is the per-dimension profile built from every
// SequenceStats record of that dimension. Field tags carry the column
// names of the output table.
type DimensionSummary struct {
	Dim int `json:"dim"`

	// MeanFractionActive is the mean over sequences of the active fraction.
	MeanFractionActive float64 `json:"mean_percent_active"`

	// MedianTopRunLength is the median length of each sequence's highest-max
	// high-activation run.
	MedianTopRunLength float64 `json:"median_len_top_contig"`

	// FracRunsHigh is the fraction of all runs whose max is high.
	FracRunsHigh float64 `json:"freq_contig_gt_75"`

	// MedianHighRunLength is the median length of runs whose max is high.
	MedianHighRunLength float64 `json:"med_contig_length_gt_75"`

	// FracIncreasingGT2 and FracDecreasingGT2 are the fractions of high runs
	// whose longest increasing (decreasing) stretch exceeds 2.
	FracIncreasingGT2 float64 `json:"freq_increase_gt_2_gt_75"`
	FracDecreasingGT2 float64 `json:"freq_decrease_gt_2_gt_75"`

	// MedianMonotonicStretch is max(median increasing, median decreasing, 0)
	// over high runs.
	MedianMonotonicStretch float64 `json:"med_monotonic_stretch_len"`

	StdErrHighRunLength float64 `json:"std_err_contig_len_gt_75"`

	// FreqTopTwoPeriod and FreqTopPeriod are the fractions of inter-run-start
	// distances falling in the two most common bins and the single most
	// common bin; TopPeriod is that most common distance.
	FreqTopTwoPeriod float64 `json:"freq_top_two_period"`
	FreqTopPeriod    float64 `json:"freq_top_period"`
	TopPeriod        int     `json:"top_period"`

	MedianRunsPerSeq   float64 `json:"med_contigs_per_seq"`
	MeanHighRunsPerSeq float64 `json:"mean_contigs_per_seq_gt_75"`
	StdErrRunLength    float64 `json:"std_err_contig_len"`

	// StdErrHighCount is the standard error of the number of high samples
	// within each high run.
	StdErrHighCount float64 `json:"std_err_contig_len75"`

	// TopRunGapped reports whether the dimension's highest-max run is gapped.
	TopRunGapped bool `json:"is_top_gapped_gt_75"`

	NumSequences     int     `json:"n_seqs"`
	FreqActiveGlobal float64 `json:"freq_active_global"`
	DeadLatent       bool    `json:"dead_latent"`
}

// DeadSummary returns the all-zero row synthesized for a dimension with no
// observed data.
func DeadSummary(dim int) DimensionSummary {
	return DimensionSummary{Dim: dim, DeadLatent: true}
}

// FeatureRow is one row of the output table: a summary and its category.
type FeatureRow struct {
	DimensionSummary
	Category Category `json:"feat_type"`
}
