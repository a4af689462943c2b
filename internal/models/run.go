package models

// ActivationTrace is the per-residue firing strength of one latent dimension
// on one sequence, normalized so the dimension's largest sampled value is 1.0.
type ActivationTrace []float64

// Run is a maximal contiguous span of a trace whose values are all > 0.
type Run struct {
	// Start is the index of the first sample of the run in its trace.
	Start int `json:"start"`

	// Length is the number of samples in the run (always >= 1).
	Length int `json:"length"`

	// Max is the largest value within the run.
	Max float64 `json:"max"`

	// Gapped reports whether the run drops from high to low activation and
	// rises to high activation again.
	Gapped bool `json:"gapped"`

	// HighCount is the number of samples above the high activation threshold.
	HighCount int `json:"high_count"`

	// LongestIncreasing and LongestDecreasing are the longest strictly
	// monotonic stretches of consecutive samples, counted in steps.
	LongestIncreasing int `json:"longest_increasing"`
	LongestDecreasing int `json:"longest_decreasing"`
}

// End returns the index one past the last sample of the run.
func (r Run) End() int {
	return r.Start + r.Length
}
