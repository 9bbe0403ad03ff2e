package garch

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"ComRisk/internal/domain/models"
	domrisk "ComRisk/internal/domain/risk"
	applogger "ComRisk/pkg/logger"
)

// WalkForward fits on train, then walks through test one observation at a
// time: forecast one step ahead, record it, fold the observation into the
// training sample, refit from scratch. Each refit replaces the whole fit
// state; the previous parameters only warm-start the optimizer.
//
// A refit failure aborts the run. A gap in the forecast series would break
// its alignment with the held-out data, so no partial result is returned.
func (e *Engine) WalkForward(ctx context.Context, train, test []float64, p, q int, confidence float64) (*models.WalkForwardResult, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, domrisk.NewParamError("confidence", confidence)
	}
	if len(test) == 0 {
		return nil, fmt.Errorf("empty test segment: %w", domrisk.ErrInsufficientData)
	}

	scaledTrain := e.scaleSample(train)
	scaledTest := e.scaleSample(test)

	expanding := make([]float64, len(scaledTrain), len(scaledTrain)+len(scaledTest))
	copy(expanding, scaledTrain)

	fit, err := e.fitScaled(ctx, expanding, p, q, nil)
	if err != nil {
		return nil, fmt.Errorf("initial fit on %d observations: %w", len(expanding), err)
	}

	z := distuv.UnitNormal.Quantile(confidence)
	forecasts := make([]models.VolForecastPoint, 0, len(scaledTest))

	for i, y := range scaledTest {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		backcast := populationVariance(expanding)
		sigma2 := forecastNext(expanding, fit.Params, fit.CondVariance, backcast)
		sigma := math.Sqrt(sigma2)
		forecasts = append(forecasts, models.VolForecastPoint{
			Sigma:    sigma,
			VaR:      math.Exp(sigma / e.scale * z),
			Observed: y,
		})

		expanding = append(expanding, y)
		warm := fit.Params
		fit, err = e.fitScaled(ctx, expanding, p, q, &warm)
		if err != nil {
			return nil, fmt.Errorf("refit at step %d/%d: %w", i+1, len(scaledTest), err)
		}
	}

	// The expanded sample must be exactly train followed by test; anything
	// else means an observation was dropped or reordered mid-loop.
	if err := checkContinuity(expanding, scaledTrain, scaledTest); err != nil {
		return nil, err
	}

	if e.log != nil {
		e.log.Info("walk-forward complete",
			applogger.Int("train", len(train)),
			applogger.Int("test", len(test)),
			applogger.Int("refits", len(test)),
		)
	}

	return &models.WalkForwardResult{
		P:          p,
		Q:          q,
		Confidence: confidence,
		Scale:      e.scale,
		TrainSize:  len(train),
		TestSize:   len(test),
		Forecasts:  forecasts,
		FinalFit:   fit,
	}, nil
}

func checkContinuity(expanded, train, test []float64) error {
	if len(expanded) != len(train)+len(test) {
		return fmt.Errorf("expanded sample has %d observations, want %d: %w",
			len(expanded), len(train)+len(test), domrisk.ErrInvalidData)
	}
	for i, y := range train {
		if expanded[i] != y {
			return fmt.Errorf("expanded sample diverges from train at %d: %w", i, domrisk.ErrInvalidData)
		}
	}
	for i, y := range test {
		if expanded[len(train)+i] != y {
			return fmt.Errorf("expanded sample diverges from test at %d: %w", i, domrisk.ErrInvalidData)
		}
	}
	return nil
}

// SplitSample cuts a sample into train/test at the given fraction,
// e.g. 0.8 for the conventional 80/20 split.
func SplitSample(sample []float64, trainFraction float64) (train, test []float64) {
	cut := int(float64(len(sample)) * trainFraction)
	if cut < 0 {
		cut = 0
	}
	if cut > len(sample) {
		cut = len(sample)
	}
	return sample[:cut], sample[cut:]
}
