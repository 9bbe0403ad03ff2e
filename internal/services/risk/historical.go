package risk

import (
	"fmt"

	domrisk "ComRisk/internal/domain/risk"
	"ComRisk/internal/services/returns"
)

// Historical estimates VaR/CVaR from the realized distribution of rolling
// log-return sums. Both outputs are on log-return scale; callers convert to
// fractional loss with 1-exp(x) when reporting.
type Historical struct{}

// NewHistorical creates a historical VaR/CVaR estimator.
func NewHistorical() *Historical { return &Historical{} }

// Estimate computes the confidence-level quantile (VaR) of the w-period
// rolling sums of rets and the mean of the tail at or below it (CVaR).
func (h *Historical) Estimate(rets []float64, window int, confidence float64) (float64, float64, error) {
	if window < 1 {
		return 0, 0, domrisk.NewParamError("window", float64(window))
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, 0, domrisk.NewParamError("confidence", confidence)
	}

	sums := returns.RollingSum(rets, window)
	if len(sums) == 0 {
		return 0, 0, fmt.Errorf("window %d over %d returns leaves no rolling sums: %w",
			window, len(rets), domrisk.ErrInsufficientData)
	}

	varLog := Quantile(sums, confidence)
	cvarLog, ok := TailMean(sums, varLog)
	if !ok {
		return 0, 0, fmt.Errorf("no observations at or below var=%g: %w", varLog, domrisk.ErrDegenerateSample)
	}
	return varLog, cvarLog, nil
}
