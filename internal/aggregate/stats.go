package aggregate

import (
	"math"
	"sort"
)

// median returns the median of values, averaging the two middle elements for
// even counts. An empty sample has median 0.
func median[T int | float64](values []T) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, v := range values {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mean returns the arithmetic mean, or 0 for an empty sample.
func mean[T int | float64](values []T) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// stdErr returns the sample standard deviation divided by sqrt(n).
// Samples with at most one element have a standard error of 0.
func stdErr[T int | float64](values []T) float64 {
	n := len(values)
	if n <= 1 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := float64(v) - m
		ss += d * d
	}
	variance := ss / float64(n-1)
	return math.Sqrt(variance / float64(n))
}

// fraction returns count/total, or 0 when total is 0.
func fraction(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
