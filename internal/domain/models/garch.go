package models

import "time"

// GarchParams are the fitted GARCH(p,q) coefficients.
type GarchParams struct {
	Omega float64
	Alpha []float64 // len p, weights on lagged squared shocks
	Beta  []float64 // len q, weights on lagged variances
}

// Persistence is the stationarity measure sum(alpha) + sum(beta).
func (p GarchParams) Persistence() float64 {
	s := 0.0
	for _, a := range p.Alpha {
		s += a
	}
	for _, b := range p.Beta {
		s += b
	}
	return s
}

// GarchFit is the immutable result of one maximum-likelihood fit.
// Walk-forward refits replace the whole value; nothing mutates in place.
type GarchFit struct {
	Symbol        string
	FittedAt      time.Time
	P             int
	Q             int
	Params        GarchParams
	LogLikelihood float64
	// CondVariance is sigma_t^2 over the fitting sample, same length as the sample.
	CondVariance []float64
	// Residuals are y_t / sigma_t, approximately N(0,1) under a correct model.
	Residuals []float64
	// SampleSize is the number of observations the fit consumed.
	SampleSize int
	// Stationary is false when persistence >= 1 (fit still usable, warned).
	Stationary bool
}

// VolForecastPoint is a one-step-ahead forecast produced by the
// walk-forward loop for a single held-out observation.
type VolForecastPoint struct {
	Date     time.Time
	Sigma    float64 // forecasted conditional volatility, scaled units
	VaR      float64 // exp((sigma/scale) * z_p), simple-return scale
	Observed float64 // the held-out scaled return the forecast was made for
}

// WalkForwardResult is the full output of a walk-forward run.
type WalkForwardResult struct {
	Symbol     string
	P          int
	Q          int
	Confidence float64
	Scale      float64
	TrainSize  int
	TestSize   int
	Forecasts  []VolForecastPoint
	FinalFit   *GarchFit
}
