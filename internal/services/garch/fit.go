package garch

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"

	"ComRisk/internal/domain/models"
	domrisk "ComRisk/internal/domain/risk"
	applogger "ComRisk/pkg/logger"
)

// Fit estimates GARCH(p,q) parameters on sample (raw, unscaled rolling-sum
// log returns) and returns the immutable fit state.
func (e *Engine) Fit(ctx context.Context, sample []float64, p, q int) (*models.GarchFit, error) {
	scaled := e.scaleSample(sample)
	return e.fitScaled(ctx, scaled, p, q, nil)
}

func (e *Engine) scaleSample(sample []float64) []float64 {
	out := make([]float64, len(sample))
	for i, y := range sample {
		out[i] = y * e.scale
	}
	return out
}

// fitScaled runs the maximum-likelihood estimation on an already scaled
// sample. warmStart, when non-nil, seeds the optimizer at the previous
// solution; this only speeds convergence, correctness does not depend on it.
func (e *Engine) fitScaled(ctx context.Context, scaled []float64, p, q int, warmStart *models.GarchParams) (*models.GarchFit, error) {
	if p < 0 {
		return nil, domrisk.NewParamError("p", float64(p))
	}
	if q < 0 {
		return nil, domrisk.NewParamError("q", float64(q))
	}
	if len(scaled) < p+q+10 {
		return nil, fmt.Errorf("garch(%d,%d) needs at least %d observations, got %d: %w",
			p, q, p+q+10, len(scaled), domrisk.ErrInsufficientData)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backcast := populationVariance(scaled)
	objective := negLogLikelihood(scaled, p, q, backcast)

	initial := e.initialVector(backcast, p, q, warmStart)
	problem := optimize.Problem{Func: objective}
	settings := &optimize.Settings{MajorIterations: maxIterations}

	result, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	if err != nil || !converged(result) {
		// Retry with a gradient-based method; the gradient is approximated
		// by finite differences since the problem carries no analytic one.
		result, err = optimize.Minimize(problem, initial, settings, &optimize.BFGS{})
		if err != nil {
			return nil, fmt.Errorf("likelihood maximization: %v: %w", err, domrisk.ErrFitConvergence)
		}
		if !converged(result) {
			return nil, fmt.Errorf("optimizer status %v after %d iterations: %w",
				result.Status, result.Stats.MajorIterations, domrisk.ErrFitConvergence)
		}
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) || result.F == math.MaxFloat64 {
		return nil, fmt.Errorf("non-finite likelihood at optimum: %w", domrisk.ErrFitConvergence)
	}

	params := paramsFromVector(result.X, p, q)
	path := variancePath(scaled, params, backcast)
	residuals := make([]float64, len(scaled))
	for t, y := range scaled {
		residuals[t] = y / math.Sqrt(path[t])
	}

	stationary := params.Persistence() < 1
	if !stationary && e.log != nil {
		e.log.Warn("garch fit is non-stationary, forecasts may explode",
			applogger.Any("persistence", params.Persistence()),
			applogger.Int("p", p),
			applogger.Int("q", q),
		)
	}

	return &models.GarchFit{
		FittedAt:      time.Now(),
		P:             p,
		Q:             q,
		Params:        params,
		LogLikelihood: -result.F,
		CondVariance:  path,
		Residuals:     residuals,
		SampleSize:    len(scaled),
		Stationary:    stationary,
	}, nil
}

// initialVector picks the optimizer start: the warm-start parameters when
// refitting, otherwise the conventional omega/alpha/beta split of the
// unconditional variance.
func (e *Engine) initialVector(backcast float64, p, q int, warmStart *models.GarchParams) []float64 {
	if warmStart != nil && len(warmStart.Alpha) == p && len(warmStart.Beta) == q {
		return vectorFromParams(*warmStart)
	}
	x := make([]float64, 1+p+q)
	alphaShare, betaShare := 0.05, 0.90
	if p == 0 {
		alphaShare = 0
	}
	if q == 0 {
		betaShare = 0
	}
	x[0] = backcast * (1 - alphaShare - betaShare)
	if x[0] < omegaFloor {
		x[0] = omegaFloor
	}
	for i := 0; i < p; i++ {
		x[1+i] = alphaShare / float64(p)
	}
	for j := 0; j < q; j++ {
		x[1+p+j] = betaShare / float64(q)
	}
	return x
}

func converged(r *optimize.Result) bool {
	switch r.Status {
	case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold, optimize.StepConvergence:
		return true
	default:
		return false
	}
}
