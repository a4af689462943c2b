package models

// SequenceStats aggregates the runs of one (sequence, dimension) pair.
// Every per-run slice has RunCount() entries, in run order.
type SequenceStats struct {
	// Dim is the latent dimension the trace belongs to.
	Dim int `json:"dim"`

	// SequenceID identifies the protein (a UniProt accession upstream).
	SequenceID string `json:"sequence_id"`

	// FreqActive is the dimension's global activation frequency, carried
	// through from the input file.
	FreqActive float64 `json:"freq_active"`

	Lengths           []int     `json:"lengths"`
	Starts            []int     `json:"starts"`
	Maxes             []float64 `json:"maxes"`
	Gapped            []bool    `json:"gapped"`
	HighCounts        []int     `json:"high_counts"`
	LongestIncreasing []int     `json:"longest_increasing"`
	LongestDecreasing []int     `json:"longest_decreasing"`

	// StartDistances holds Starts[i+1]-Starts[i]; empty when fewer than two runs exist.
	StartDistances []int `json:"start_distances"`

	// FractionActive is the fraction of the trace with a value > 0.
	FractionActive float64 `json:"fraction_active"`
}

// RunCount returns the number of runs in the sequence.
func (s SequenceStats) RunCount() int {
	return len(s.Lengths)
}

// Run reassembles the i-th run's descriptors.
func (s SequenceStats) Run(i int) Run {
	return Run{
		Start:             s.Starts[i],
		Length:            s.Lengths[i],
		Max:               s.Maxes[i],
		Gapped:            s.Gapped[i],
		HighCount:         s.HighCounts[i],
		LongestIncreasing: s.LongestIncreasing[i],
		LongestDecreasing: s.LongestDecreasing[i],
	}
}
