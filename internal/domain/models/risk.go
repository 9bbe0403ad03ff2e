package models

import "time"

// RiskEstimate holds a VaR/CVaR pair on log-return scale.
// LossVaR and LossCVaR are the same figures expressed as fractional
// price losses, 1 - exp(x).
type RiskEstimate struct {
	Symbol     string
	Timestamp  time.Time
	Method     string // "historical" | "montecarlo"
	Confidence float64
	Window     int
	VaR        float64
	CVaR       float64
	LossVaR    float64
	LossCVaR   float64
}

// MonteCarloEstimate extends RiskEstimate with simulation detail.
type MonteCarloEstimate struct {
	RiskEstimate
	Simulations int
	Mu          float64 // per-period drift used for calibration
	Sigma       float64 // per-period volatility used for calibration
	Seed        int64
}

// OptionQuote is a priced vanilla option pair.
type OptionQuote struct {
	Symbol    string
	Timestamp time.Time
	Spot      float64
	Strike    float64
	Rate      float64
	Expiry    float64 // years
	Sigma     float64 // annualized log-volatility input
	Call      float64
	Put       float64
}
