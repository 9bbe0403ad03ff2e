package returns

import (
	"fmt"
	"math"

	"ComRisk/internal/domain/models"
	domrisk "ComRisk/internal/domain/risk"
)

// FromPrices computes log returns r_i = ln(P_{i+1} / P_i) from daily closes.
// Each return carries the earlier observation's date: the final close has no
// forward-looking return, so the output has length len(points)-1.
func FromPrices(points []models.PricePoint) ([]models.LogReturn, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 prices, got %d: %w", len(points), domrisk.ErrInsufficientData)
	}
	out := make([]models.LogReturn, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		cur := points[i].Close
		next := points[i+1].Close
		if cur <= 0 || next <= 0 {
			return nil, fmt.Errorf("non-positive close at index %d: %w", i, domrisk.ErrInvalidData)
		}
		if !points[i].Date.Before(points[i+1].Date) {
			return nil, fmt.Errorf("timestamps not strictly increasing at index %d: %w", i, domrisk.ErrInvalidData)
		}
		out = append(out, models.LogReturn{Date: points[i].Date, Value: math.Log(next / cur)})
	}
	return out, nil
}

// Values strips the dates off a log-return series.
func Values(rs []models.LogReturn) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Value
	}
	return out
}

// RollingSum sums a trailing window of size w over xs. The first w-1
// positions have no defined sum and are dropped, so the output has
// length len(xs)-w+1, or nil when the window does not fit.
func RollingSum(xs []float64, w int) []float64 {
	if w < 1 || len(xs) < w {
		return nil
	}
	out := make([]float64, 0, len(xs)-w+1)
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= w {
			sum -= xs[i-w]
		}
		if i >= w-1 {
			out = append(out, sum)
		}
	}
	return out
}

// MeanStd returns the sample mean and (n-1)-denominator standard deviation.
// A single observation yields std 0.
func MeanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if len(xs) == 1 {
		return mean, 0
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}

// AnnualizedVol scales a per-period volatility by sqrt(periodsPerYear).
func AnnualizedVol(periodVol float64, periodsPerYear float64) float64 {
	return periodVol * math.Sqrt(periodsPerYear)
}
