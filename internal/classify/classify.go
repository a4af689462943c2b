// Package classify assigns each dimension summary to one firing-pattern category.
package classify

import (
	"github.com/nvandessel/saescope/internal/constants"
	"github.com/nvandessel/saescope/internal/models"
)

// Rule names reported by Explain, in cascade order.
const (
	RuleNotEnoughData = "not_enough_data"
	RuleDeadLatent    = "dead_latent"
	RulePeriodic      = "periodic"
	RulePoint         = "point"
	RuleMotif         = "motif"
	RuleWhole         = "whole"
	RuleFallback      = "fallback"
)

// Decision is a category together with the rule that produced it.
type Decision struct {
	Category models.Category `json:"category"`
	Rule     string          `json:"rule"`
}

// Classify returns the category of a dimension summary. It is total: every
// summary maps to exactly one category.
func Classify(s models.DimensionSummary) models.Category {
	return Explain(s).Category
}

// Explain evaluates the rule cascade and reports which rule matched first.
func Explain(s models.DimensionSummary) Decision {
	if s.NumSequences < constants.MinSequencesForClassification {
		return Decision{models.CategoryNotEnoughData, RuleNotEnoughData}
	}
	if s.DeadLatent {
		return Decision{models.CategoryDeadLatent, RuleDeadLatent}
	}

	if isPeriodic(s) {
		return Decision{models.CategoryPeriodic, RulePeriodic}
	}

	if s.MedianHighRunLength == 1 {
		return Decision{models.CategoryPoint, RulePoint}
	}

	if s.FracRunsHigh > constants.MotifMinHighRunFreq && s.MeanFractionActive < constants.WholeSequenceFraction {
		if c, ok := motifLength(s.MedianTopRunLength); ok {
			return Decision{c, RuleMotif}
		}
		// Top runs of 300 or more residues are not motifs; keep evaluating.
	}

	if s.MeanFractionActive > constants.WholeSequenceFraction {
		return Decision{models.CategoryWhole, RuleWhole}
	}

	return Decision{models.CategoryOther, RuleFallback}
}

func isPeriodic(s models.DimensionSummary) bool {
	return s.FreqTopTwoPeriod > constants.PeriodicTopTwoFreq &&
		s.MedianRunsPerSeq > constants.PeriodicMinRunsPerSeq &&
		s.MedianTopRunLength < constants.PeriodicMaxTopRunLength
}

func motifLength(medianTopRunLength float64) (models.Category, bool) {
	switch {
	case medianTopRunLength < constants.ShortMotifMaxLength:
		return models.CategoryShortMotif, true
	case medianTopRunLength < constants.MedMotifMaxLength:
		return models.CategoryMedMotif, true
	case medianTopRunLength < constants.LongMotifMaxLength:
		return models.CategoryLongMotif, true
	}
	return "", false
}

// Rows classifies every summary, preserving order.
func Rows(summaries []models.DimensionSummary) []models.FeatureRow {
	rows := make([]models.FeatureRow, len(summaries))
	for i, s := range summaries {
		rows[i] = models.FeatureRow{DimensionSummary: s, Category: Classify(s)}
	}
	return rows
}
