package models

// Category labels the firing pattern of a latent dimension.
type Category string

const (
	CategoryNotEnoughData Category = "not enough data"
	CategoryDeadLatent    Category = "dead latent"
	CategoryPeriodic      Category = "periodic"
	CategoryPoint         Category = "point"
	CategoryShortMotif    Category = "short motif (1-20)"
	CategoryMedMotif      Category = "med motif (20-50)"
	CategoryLongMotif     Category = "long motif (50-300)"
	CategoryWhole         Category = "whole"
	CategoryOther         Category = "other"
)

// AllCategories lists every category in cascade order.
var AllCategories = []Category{
	CategoryNotEnoughData,
	CategoryDeadLatent,
	CategoryPeriodic,
	CategoryPoint,
	CategoryShortMotif,
	CategoryMedMotif,
	CategoryLongMotif,
	CategoryWhole,
	CategoryOther,
}

// Valid returns true if the category is one of the fixed labels.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the label.
func (c Category) String() string {
	return string(c)
}

// CountCategories tallies rows per category. Every category is present in
// the result, with zero counts for unused ones.
func CountCategories(rows []FeatureRow) map[Category]int {
	counts := make(map[Category]int, len(AllCategories))
	for _, c := range AllCategories {
		counts[c] = 0
	}
	for _, r := range rows {
		counts[r.Category]++
	}
	return counts
}
