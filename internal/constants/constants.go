// Package constants provides named constants used throughout the saescope codebase.
// The activation thresholds and cutoffs are fixed parts of the analysis and
// must stay as they are for output to be comparable across runs.
package constants

// Activation thresholds applied to normalized traces.
const (
	// HighActivationThreshold marks a sample (or a run's max) as high activation.
	// Comparisons against it are strict: a value of exactly 0.75 is not high.
	HighActivationThreshold = 0.75

	// LowActivationThreshold is the level a run must fall below between two
	// high samples to count as gapped.
	LowActivationThreshold = 0.10
)

// Classification cutoffs
const (
	// MinSequencesForClassification is the number of sequences a dimension must
	// be observed in before any category other than "not enough data" is assigned.
	MinSequencesForClassification = 5

	// PeriodicTopTwoFreq is the minimum fraction of inter-run-start distances
	// that must fall in the two most common bins for a periodic feature.
	PeriodicTopTwoFreq = 0.5

	// PeriodicMinRunsPerSeq is the median run count per sequence a periodic
	// feature must exceed.
	PeriodicMinRunsPerSeq = 10

	// PeriodicMaxTopRunLength bounds the median top run length of a periodic feature.
	PeriodicMaxTopRunLength = 10

	// MotifMinHighRunFreq is the fraction of runs with a high max a motif
	// feature must exceed.
	MotifMinHighRunFreq = 0.1

	// WholeSequenceFraction separates motif features (below) from whole-sequence
	// features (above).
	WholeSequenceFraction = 0.8

	// ShortMotifMaxLength, MedMotifMaxLength and LongMotifMaxLength are the
	// exclusive upper bounds on median top run length for each motif class.
	ShortMotifMaxLength = 20
	MedMotifMaxLength   = 50
	LongMotifMaxLength  = 300

	// MonotonicStretchMin is the stretch length a high run must exceed to count
	// toward the increasing/decreasing frequency columns.
	MonotonicStretchMin = 2
)

// Input and output defaults
const (
	// DefaultRangeKey is the activation range whose examples are analyzed.
	DefaultRangeKey = "0.75-1"

	// OutputBaseName is the file stem for every output artifact.
	OutputBaseName = "feature_stats"

	// DecisionLogName is the JSONL classification trace written at debug level.
	DecisionLogName = "decisions.jsonl"
)
