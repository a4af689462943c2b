package mcp

// FeatureStatsInput defines the input for the feature_stats tool.
type FeatureStatsInput struct {
	Dim int `json:"dim" jsonschema:"Latent dimension index to look up"`
}

// FeatureStatsOutput defines the output for the feature_stats tool.
type FeatureStatsOutput struct {
	Dim      int            `json:"dim" jsonschema:"Latent dimension index"`
	Category string         `json:"category" jsonschema:"Firing-pattern category of the dimension"`
	Columns  map[string]any `json:"columns" jsonschema:"Every feature table column for the dimension keyed by column name"`
	RunID    string         `json:"run_id" jsonschema:"Analysis run the row belongs to"`
}

// FeatureSummaryInput defines the input for the feature_summary tool.
type FeatureSummaryInput struct {
	Category string `json:"category,omitempty" jsonschema:"Optional category; when set the dimensions in it are listed"`
}

// FeatureSummaryOutput defines the output for the feature_summary tool.
type FeatureSummaryOutput struct {
	Run    RunInfo        `json:"run" jsonschema:"Analysis run the counts come from"`
	Counts map[string]int `json:"counts" jsonschema:"Number of dimensions per category"`
	Total  int            `json:"total" jsonschema:"Number of dimensions in the run"`
	Dims   []int          `json:"dims,omitempty" jsonschema:"Dimensions in the requested category"`
}

// RunInfo describes a stored analysis run.
type RunInfo struct {
	ID           string `json:"id"`
	FinishedAt   string `json:"finished_at"`
	InputDir     string `json:"input_dir"`
	HiddenDim    int    `json:"hidden_dim"`
	FilesRead    int    `json:"files_read"`
	FilesSkipped int    `json:"files_skipped"`
}

// ClassifySummaryInput carries the summary statistics the classifier reads.
type ClassifySummaryInput struct {
	NumSequences        int     `json:"n_seqs" jsonschema:"Number of sequences that contributed statistics"`
	DeadLatent          bool    `json:"dead_latent,omitempty" jsonschema:"Whether the dimension had no observed data"`
	FreqTopTwoPeriod    float64 `json:"freq_top_two_period,omitempty" jsonschema:"Fraction of run-start distances in the two most common bins"`
	MedianRunsPerSeq    float64 `json:"med_contigs_per_seq,omitempty" jsonschema:"Median number of runs per sequence"`
	MedianTopRunLength  float64 `json:"median_len_top_contig,omitempty" jsonschema:"Median length of each sequence's strongest run"`
	MedianHighRunLength float64 `json:"med_contig_length_gt_75,omitempty" jsonschema:"Median length of runs peaking above 0.75"`
	FracRunsHigh        float64 `json:"freq_contig_gt_75,omitempty" jsonschema:"Fraction of runs peaking above 0.75"`
	MeanFractionActive  float64 `json:"mean_percent_active,omitempty" jsonschema:"Mean fraction of positive positions per sequence"`
}

// ClassifySummaryOutput defines the output for the classify_summary tool.
type ClassifySummaryOutput struct {
	Category string `json:"category" jsonschema:"Assigned category"`
	Rule     string `json:"rule" jsonschema:"Rule of the cascade that matched"`
}
