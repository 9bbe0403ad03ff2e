package garch

import (
	"math"

	"ComRisk/internal/domain/models"
)

const log2Pi = 1.8378770664093453

// paramsFromVector unpacks the optimizer vector [omega, alpha..., beta...]
// after projecting every coordinate onto its feasible half-line.
func paramsFromVector(x []float64, p, q int) models.GarchParams {
	out := models.GarchParams{
		Omega: math.Max(x[0], omegaFloor),
		Alpha: make([]float64, p),
		Beta:  make([]float64, q),
	}
	for i := 0; i < p; i++ {
		out.Alpha[i] = math.Max(x[1+i], 0)
	}
	for j := 0; j < q; j++ {
		out.Beta[j] = math.Max(x[1+p+j], 0)
	}
	return out
}

func vectorFromParams(params models.GarchParams) []float64 {
	x := make([]float64, 1+len(params.Alpha)+len(params.Beta))
	x[0] = params.Omega
	copy(x[1:], params.Alpha)
	copy(x[1+len(params.Alpha):], params.Beta)
	return x
}

// negLogLikelihood builds the objective minimized by the fit: the negated
// Gaussian zero-mean log likelihood
//
//	l(theta) = sum_t [ -0.5*ln(2*pi) - 0.5*ln(sigma2_t) - 0.5*y_t^2/sigma2_t ]
//
// evaluated through the variance recursion seeded with the sample variance.
func negLogLikelihood(sample []float64, p, q int, backcast float64) func(x []float64) float64 {
	return func(x []float64) float64 {
		params := paramsFromVector(x, p, q)
		path := variancePath(sample, params, backcast)
		ll := 0.0
		for t, y := range sample {
			v := path[t]
			ll += -0.5*log2Pi - 0.5*math.Log(v) - 0.5*y*y/v
		}
		if math.IsNaN(ll) || math.IsInf(ll, 0) {
			// Steer the optimizer away from pathological regions.
			return math.MaxFloat64
		}
		return -ll
	}
}
