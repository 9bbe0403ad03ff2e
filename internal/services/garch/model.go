package garch

import (
	"ComRisk/internal/domain/models"
	applogger "ComRisk/pkg/logger"
)

const (
	// DefaultScale multiplies returns before fitting. The likelihood surface
	// of daily log returns is too flat near zero for the optimizer, so the
	// sample is blown up by a constant that is divided back out when a
	// forecast is translated to VaR.
	DefaultScale = 1000.0

	// omegaFloor keeps the constant term strictly positive inside the
	// optimizer; a zero omega makes the variance recursion collapse.
	omegaFloor = 1e-8

	// maxIterations bounds a single likelihood maximization.
	maxIterations = 2000
)

// Engine fits zero-mean GARCH(p,q) models by Gaussian maximum likelihood
// and produces walk-forward one-step-ahead volatility forecasts.
//
//	sigma2_t = omega + sum_i alpha_i*y_{t-i}^2 + sum_j beta_j*sigma2_{t-j}
type Engine struct {
	scale float64
	log   *applogger.Logger
}

// NewEngine creates an engine with the given return scale factor.
// scale <= 0 selects DefaultScale.
func NewEngine(scale float64, log *applogger.Logger) *Engine {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Engine{scale: scale, log: log}
}

// Scale reports the return multiplier applied before fitting.
func (e *Engine) Scale() float64 { return e.scale }

// variancePath runs the GARCH recursion over sample with the given
// parameters. Indices before the sample start are backcast with the sample
// variance, for both squared shocks and lagged variances.
func variancePath(sample []float64, params models.GarchParams, backcast float64) []float64 {
	p := len(params.Alpha)
	q := len(params.Beta)
	path := make([]float64, len(sample))
	for t := range sample {
		v := params.Omega
		for i := 1; i <= p; i++ {
			if t-i >= 0 {
				v += params.Alpha[i-1] * sample[t-i] * sample[t-i]
			} else {
				v += params.Alpha[i-1] * backcast
			}
		}
		for j := 1; j <= q; j++ {
			if t-j >= 0 {
				v += params.Beta[j-1] * path[t-j]
			} else {
				v += params.Beta[j-1] * backcast
			}
		}
		if v < omegaFloor {
			v = omegaFloor
		}
		path[t] = v
	}
	return path
}

// forecastNext produces sigma2_{T+1} one step past the fitting sample.
func forecastNext(sample []float64, params models.GarchParams, path []float64, backcast float64) float64 {
	n := len(sample)
	v := params.Omega
	for i := 1; i <= len(params.Alpha); i++ {
		if n-i >= 0 {
			v += params.Alpha[i-1] * sample[n-i] * sample[n-i]
		} else {
			v += params.Alpha[i-1] * backcast
		}
	}
	for j := 1; j <= len(params.Beta); j++ {
		if n-j >= 0 {
			v += params.Beta[j-1] * path[n-j]
		} else {
			v += params.Beta[j-1] * backcast
		}
	}
	if v < omegaFloor {
		v = omegaFloor
	}
	return v
}

// populationVariance is the backcast seed: the zero-mean second moment
// of the sample.
func populationVariance(sample []float64) float64 {
	if len(sample) == 0 {
		return omegaFloor
	}
	ss := 0.0
	for _, y := range sample {
		ss += y * y
	}
	v := ss / float64(len(sample))
	if v < omegaFloor {
		v = omegaFloor
	}
	return v
}
