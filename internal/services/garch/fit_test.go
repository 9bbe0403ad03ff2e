package garch

import (
	"context"
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	domrisk "ComRisk/internal/domain/risk"
)

// simulateGarch11 draws a deterministic zero-mean GARCH(1,1) return series
// at daily-return magnitude.
func simulateGarch11(n int, omega, alpha, beta float64, seed uint64) []float64 {
	z := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	sample := make([]float64, n)
	sigma2 := omega / (1 - alpha - beta)
	prev := 0.0
	for t := 0; t < n; t++ {
		sigma2 = omega + alpha*prev*prev + beta*sigma2
		prev = math.Sqrt(sigma2) * z.Rand()
		sample[t] = prev
	}
	return sample
}

func TestFitGarch11(t *testing.T) {
	// Unconditional daily variance 0.0004 (2% daily vol), persistence 0.9.
	sample := simulateGarch11(600, 4e-5, 0.1, 0.8, 11)
	e := NewEngine(DefaultScale, nil)

	fit, err := e.Fit(context.Background(), sample, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fit.P != 1 || fit.Q != 1 {
		t.Fatalf("order recorded as (%d,%d)", fit.P, fit.Q)
	}
	if fit.Params.Omega <= 0 {
		t.Fatalf("omega not positive: %v", fit.Params.Omega)
	}
	if fit.Params.Alpha[0] < 0 || fit.Params.Beta[0] < 0 {
		t.Fatalf("negative arch/garch coefficient: %+v", fit.Params)
	}
	if math.IsNaN(fit.LogLikelihood) || math.IsInf(fit.LogLikelihood, 0) {
		t.Fatalf("non-finite likelihood %v", fit.LogLikelihood)
	}
	if fit.SampleSize != len(sample) {
		t.Fatalf("sample size %d, want %d", fit.SampleSize, len(sample))
	}
	if len(fit.CondVariance) != len(sample) || len(fit.Residuals) != len(sample) {
		t.Fatalf("path length %d residuals %d, want %d", len(fit.CondVariance), len(fit.Residuals), len(sample))
	}
	for i, v := range fit.CondVariance {
		if v <= 0 || math.IsNaN(v) {
			t.Fatalf("conditional variance %d not positive: %v", i, v)
		}
	}
	for i, r := range fit.Residuals {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Fatalf("residual %d not finite: %v", i, r)
		}
	}
	if fit.Stationary != (fit.Params.Persistence() < 1) {
		t.Fatalf("stationarity flag %v disagrees with persistence %v", fit.Stationary, fit.Params.Persistence())
	}
}

func TestFitConstantVarianceRecoversSecondMoment(t *testing.T) {
	// With p=q=0 the likelihood has the closed-form maximizer
	// omega = mean of squared observations.
	sample := simulateGarch11(200, 4e-5, 0, 0.0, 5)
	e := NewEngine(DefaultScale, nil)

	fit, err := e.Fit(context.Background(), sample, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scaled := e.scaleSample(sample)
	want := populationVariance(scaled)
	if math.Abs(fit.Params.Omega-want)/want > 0.01 {
		t.Fatalf("omega %v, analytic maximizer %v", fit.Params.Omega, want)
	}
}

func TestFitWarmStartConverges(t *testing.T) {
	sample := simulateGarch11(300, 4e-5, 0.1, 0.8, 23)
	e := NewEngine(DefaultScale, nil)
	scaled := e.scaleSample(sample)

	cold, err := e.fitScaled(context.Background(), scaled, 1, 1, nil)
	if err != nil {
		t.Fatalf("cold fit: %v", err)
	}
	warm, err := e.fitScaled(context.Background(), scaled, 1, 1, &cold.Params)
	if err != nil {
		t.Fatalf("warm fit: %v", err)
	}
	// Restarting at the optimum must not land anywhere worse.
	if warm.LogLikelihood < cold.LogLikelihood-1e-6 {
		t.Fatalf("warm likelihood %v below cold %v", warm.LogLikelihood, cold.LogLikelihood)
	}
}

func TestFitRejectsBadInputs(t *testing.T) {
	e := NewEngine(DefaultScale, nil)
	ctx := context.Background()

	if _, err := e.Fit(ctx, []float64{0.01, -0.01}, 1, 1); !errors.Is(err, domrisk.ErrInsufficientData) {
		t.Fatalf("short sample: expected ErrInsufficientData, got %v", err)
	}
	sample := simulateGarch11(50, 4e-5, 0.1, 0.8, 3)
	if _, err := e.Fit(ctx, sample, -1, 1); !errors.Is(err, domrisk.ErrInvalidParameter) {
		t.Fatalf("negative p: expected ErrInvalidParameter, got %v", err)
	}
	if _, err := e.Fit(ctx, sample, 1, -1); !errors.Is(err, domrisk.ErrInvalidParameter) {
		t.Fatalf("negative q: expected ErrInvalidParameter, got %v", err)
	}
}

func TestFitHonorsContextCancel(t *testing.T) {
	e := NewEngine(DefaultScale, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sample := simulateGarch11(100, 4e-5, 0.1, 0.8, 3)
	if _, err := e.Fit(ctx, sample, 1, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
