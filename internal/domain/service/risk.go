package service

import (
	"context"

	"ComRisk/internal/domain/models"
)

// HistoricalEstimator computes empirical VaR/CVaR from realized log returns.
type HistoricalEstimator interface {
	Estimate(returns []float64, window int, confidence float64) (varLog, cvarLog float64, err error)
}

// MonteCarloEstimator computes VaR/CVaR from simulated aggregate returns.
type MonteCarloEstimator interface {
	Estimate(mu, sigma float64, periods, simulations int, confidence float64) (varLog, cvarLog float64, err error)
}

// OptionPricer values vanilla options against a volatility estimate.
type OptionPricer interface {
	Call(spot, strike, sigma, rate, expiry float64) (float64, error)
	Put(spot, strike, sigma, rate, expiry float64) (float64, error)
}

// VolatilityModel fits a conditional-volatility model and produces
// walk-forward one-step-ahead forecasts.
type VolatilityModel interface {
	Fit(ctx context.Context, sample []float64, p, q int) (*models.GarchFit, error)
	WalkForward(ctx context.Context, train, test []float64, p, q int, confidence float64) (*models.WalkForwardResult, error)
}
