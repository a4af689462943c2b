package aggregate

import "sort"

// periodicity describes how regularly runs start within a dimension.
type periodicity struct {
	freqTop    float64
	freqTopTwo float64
	top        int
}

type distanceBin struct {
	distance int
	count    int
}

// computePeriodicity histograms the pooled inter-run-start distances and
// reports the mass of the most common bin and of the two most common bins.
// The histogram spans every distance from 0 up to the largest one, so a
// single distinct distance still pairs with an empty bin and its top-two
// fraction equals its top fraction. Equal counts are ordered by smaller
// distance, which callers must not rely on.
func computePeriodicity(distances []int) periodicity {
	if len(distances) == 0 {
		return periodicity{}
	}

	counts := make(map[int]int)
	for _, d := range distances {
		counts[d]++
	}

	bins := make([]distanceBin, 0, len(counts))
	for d, c := range counts {
		bins = append(bins, distanceBin{distance: d, count: c})
	}
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].count != bins[j].count {
			return bins[i].count > bins[j].count
		}
		return bins[i].distance < bins[j].distance
	})

	total := len(distances)
	p := periodicity{
		top:     bins[0].distance,
		freqTop: fraction(bins[0].count, total),
	}
	switch {
	case len(bins) >= 2:
		p.freqTopTwo = fraction(bins[0].count+bins[1].count, total)
	case bins[0].distance > 0:
		p.freqTopTwo = p.freqTop
	}
	return p
}
