package risk

import (
	"math"
	"sort"
)

// Quantile computes the empirical p-quantile of xs with linear interpolation
// between order statistics (the "type 7" convention, matching numpy's
// default). xs is not modified. Returns NaN for an empty sample.
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// TailMean averages every value <= threshold. ok is false when no value
// qualifies, which happens with tiny samples and interpolated quantiles.
func TailMean(xs []float64, threshold float64) (float64, bool) {
	sum := 0.0
	n := 0
	for _, x := range xs {
		if x <= threshold {
			sum += x
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
