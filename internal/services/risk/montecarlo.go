package risk

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	domrisk "ComRisk/internal/domain/risk"
)

// MonteCarlo estimates VaR/CVaR by simulating aggregate log returns under
// the model log(S_t) - log(S_{t-1}) = mu*dt + sigma*sqrt(dt)*Z with dt = 1.
// Each path is the sum of `periods` i.i.d. normal increments.
type MonteCarlo struct {
	src rand.Source
}

// NewMonteCarlo creates an estimator seeded for reproducible runs.
// Seed 0 leaves the process-level source in place.
func NewMonteCarlo(seed int64) *MonteCarlo {
	mc := &MonteCarlo{}
	if seed != 0 {
		mc.src = rand.NewSource(uint64(seed))
	}
	return mc
}

// Estimate draws simulations aggregate returns and reads the empirical
// quantile and tail mean off them, same conventions as Historical.
func (m *MonteCarlo) Estimate(mu, sigma float64, periods, simulations int, confidence float64) (float64, float64, error) {
	if sigma < 0 {
		return 0, 0, domrisk.NewParamError("sigma", sigma)
	}
	if periods < 1 {
		return 0, 0, domrisk.NewParamError("periods", float64(periods))
	}
	if simulations < 1 {
		return 0, 0, domrisk.NewParamError("simulations", float64(simulations))
	}
	if confidence <= 0 || confidence >= 1 {
		return 0, 0, domrisk.NewParamError("confidence", confidence)
	}

	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: m.src}
	draws := make([]float64, simulations)
	for i := range draws {
		sum := 0.0
		for j := 0; j < periods; j++ {
			sum += dist.Rand()
		}
		draws[i] = sum
	}
	for _, d := range draws {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, 0, fmt.Errorf("non-finite simulated return: %w", domrisk.ErrInvalidData)
		}
	}

	varLog := Quantile(draws, confidence)
	cvarLog, ok := TailMean(draws, varLog)
	if !ok {
		return 0, 0, fmt.Errorf("no simulated returns at or below var=%g: %w", varLog, domrisk.ErrDegenerateSample)
	}
	return varLog, cvarLog, nil
}

// AnalyticVaR is the closed-form normal quantile mu*periods +
// sigma*sqrt(periods)*z_p the simulation converges to. Exposed for
// diagnostics and convergence checks.
func AnalyticVaR(mu, sigma float64, periods int, confidence float64) float64 {
	z := distuv.UnitNormal.Quantile(confidence)
	return mu*float64(periods) + sigma*math.Sqrt(float64(periods))*z
}
