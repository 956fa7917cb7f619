package arb

import "sort"

// DepthMethod selects how a reference price is condensed out of order-book
// depth.
type DepthMethod string

const (
	DepthMedian      DepthMethod = "median"
	DepthTrimmedMean DepthMethod = "trimmed_mean"
	DepthLowest      DepthMethod = "lowest"
)

// BasePriceFromDepth condenses a slice of depth prices into one reference
// price. trim is the fraction cut from each end for the trimmed mean (it is
// ignored by the other methods). Returns 0 for an empty slice.
func BasePriceFromDepth(prices []float64, method DepthMethod, trim float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	xs := make([]float64, len(prices))
	copy(xs, prices)
	sort.Float64s(xs)

	switch method {
	case DepthMedian:
		n := len(xs)
		if n%2 == 1 {
			return xs[n/2]
		}
		return (xs[n/2-1] + xs[n/2]) / 2
	case DepthTrimmedMean:
		k := int(float64(len(xs)) * trim)
		core := xs
		if len(xs) > 2*k {
			core = xs[k : len(xs)-k]
		}
		sum := 0.0
		for _, x := range core {
			sum += x
		}
		return sum / float64(len(core))
	default:
		return xs[0]
	}
}
