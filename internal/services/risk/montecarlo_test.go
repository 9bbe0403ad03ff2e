package risk

import (
	"errors"
	"math"
	"testing"

	domrisk "ComRisk/internal/domain/risk"
)

func TestMonteCarloDeterministicWithSeed(t *testing.T) {
	a := NewMonteCarlo(42)
	b := NewMonteCarlo(42)

	varA, cvarA, err := a.Estimate(0.0005, 0.02, 10, 5000, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	varB, cvarB, err := b.Estimate(0.0005, 0.02, 10, 5000, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if varA != varB || cvarA != cvarB {
		t.Fatalf("same seed diverged: (%v,%v) vs (%v,%v)", varA, cvarA, varB, cvarB)
	}
}

func TestMonteCarloSeedsDiffer(t *testing.T) {
	varA, _, err := NewMonteCarlo(1).Estimate(0, 0.02, 5, 2000, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	varB, _, err := NewMonteCarlo(2).Estimate(0, 0.02, 5, 2000, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if varA == varB {
		t.Fatalf("different seeds produced identical var %v", varA)
	}
}

func TestMonteCarloConvergesToAnalytic(t *testing.T) {
	mu, sigma := 0.0, 0.01
	periods, confidence := 10, 0.05

	varLog, cvarLog, err := NewMonteCarlo(7).Estimate(mu, sigma, periods, 200000, confidence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := AnalyticVaR(mu, sigma, periods, confidence)
	// Analytic var is about -0.052; 200k draws keep the empirical quantile
	// well within a 2% relative band.
	if math.Abs(varLog-want) > math.Abs(want)*0.02 {
		t.Fatalf("var %v too far from analytic %v", varLog, want)
	}
	if cvarLog > varLog {
		t.Fatalf("cvar %v above var %v", cvarLog, varLog)
	}
}

func TestMonteCarloZeroSigma(t *testing.T) {
	varLog, cvarLog, err := NewMonteCarlo(3).Estimate(0.001, 0, 10, 100, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(varLog-0.01) > 1e-12 || math.Abs(cvarLog-0.01) > 1e-12 {
		t.Fatalf("zero vol should give the drift exactly: var %v cvar %v", varLog, cvarLog)
	}
}

func TestMonteCarloBadParams(t *testing.T) {
	mc := NewMonteCarlo(1)
	cases := []struct {
		name                 string
		mu, sigma            float64
		periods, simulations int
		confidence           float64
	}{
		{"negative sigma", 0, -0.01, 10, 100, 0.05},
		{"zero periods", 0, 0.01, 0, 100, 0.05},
		{"zero simulations", 0, 0.01, 10, 0, 0.05},
		{"confidence zero", 0, 0.01, 10, 100, 0},
		{"confidence one", 0, 0.01, 10, 100, 1},
	}
	for _, c := range cases {
		if _, _, err := mc.Estimate(c.mu, c.sigma, c.periods, c.simulations, c.confidence); !errors.Is(err, domrisk.ErrInvalidParameter) {
			t.Fatalf("%s: expected ErrInvalidParameter, got %v", c.name, err)
		}
	}
}

func TestAnalyticVaR(t *testing.T) {
	// At 50% confidence z is 0, leaving only the drift term.
	got := AnalyticVaR(0.001, 0.02, 10, 0.5)
	if math.Abs(got-0.01) > 1e-12 {
		t.Fatalf("got %v want 0.01", got)
	}
}
