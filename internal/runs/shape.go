package runs

import "github.com/nvandessel/saescope/internal/constants"

// IsGapped reports whether values fall from above the high threshold to
// below the low threshold and later climb above the high threshold again.
// Only consecutive samples are compared.
func IsGapped(values []float64) bool {
	if !anyAbove(values, constants.HighActivationThreshold) {
		return false
	}

	inGap := false
	for i := 1; i < len(values); i++ {
		if values[i] < constants.LowActivationThreshold && values[i-1] > constants.HighActivationThreshold {
			inGap = true
		} else if inGap && values[i] > constants.HighActivationThreshold {
			return true
		}
	}
	return false
}

// MonotonicStretch returns the longest strictly increasing and strictly
// decreasing stretches of consecutive samples, counted in steps. A tie
// resets both counters.
func MonotonicStretch(values []float64) (longestInc, longestDec int) {
	curInc, curDec := 0, 0
	for i := 1; i < len(values); i++ {
		switch {
		case values[i] > values[i-1]:
			curInc++
			curDec = 0
		case values[i] < values[i-1]:
			curDec++
			curInc = 0
		default:
			curInc, curDec = 0, 0
		}
		longestInc = max(longestInc, curInc)
		longestDec = max(longestDec, curDec)
	}
	return longestInc, longestDec
}

func anyAbove(values []float64, threshold float64) bool {
	for _, v := range values {
		if v > threshold {
			return true
		}
	}
	return false
}
